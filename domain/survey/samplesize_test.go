package survey

import (
	"math"
	"testing"
)

func TestSampleSizeKnownValue(t *testing.T) {
	est, err := SampleSize(SampleSizeRequest{
		EffectSize:     0.5,
		Power:          0.8,
		SigLevel:       0.05,
		Clusters:       30,
		AvgClusterSize: 25,
		ICC:            0.05,
	})
	if err != nil {
		t.Fatalf("SampleSize returned error: %v", err)
	}
	// 2 * ((1.959964 + 0.841621) / 0.5)^2 * 2.2 = 138.14, rounded up
	if est.TotalN != 139 {
		t.Errorf("expected total N 139, got %d", est.TotalN)
	}
	if est.SubjectsPerCluster != 5 {
		t.Errorf("expected 5 subjects per cluster, got %d", est.SubjectsPerCluster)
	}
	if math.Abs(est.DesignEffect-2.2) > 1e-12 {
		t.Errorf("expected design effect 2.2, got %v", est.DesignEffect)
	}
}

func TestSampleSizeDefaultsApplied(t *testing.T) {
	explicit, err := SampleSize(SampleSizeRequest{
		EffectSize:     0.3,
		Power:          DefaultPower,
		SigLevel:       DefaultSigLevel,
		Clusters:       20,
		AvgClusterSize: 10,
		ICC:            DefaultICC,
	})
	if err != nil {
		t.Fatalf("SampleSize returned error: %v", err)
	}
	defaulted, err := SampleSize(SampleSizeRequest{
		EffectSize:     0.3,
		Clusters:       20,
		AvgClusterSize: 10,
	})
	if err != nil {
		t.Fatalf("SampleSize returned error: %v", err)
	}
	if explicit != defaulted {
		t.Errorf("zero-valued parameters should match explicit defaults: %+v vs %+v", defaulted, explicit)
	}
}

func TestSampleSizeStudentTExceedsNormal(t *testing.T) {
	base := SampleSizeRequest{
		EffectSize:     0.5,
		Clusters:       30,
		AvgClusterSize: 25,
	}
	normal, err := SampleSize(base)
	if err != nil {
		t.Fatalf("SampleSize returned error: %v", err)
	}
	withDF := base
	withDF.DF = 10
	studentT, err := SampleSize(withDF)
	if err != nil {
		t.Fatalf("SampleSize returned error: %v", err)
	}
	if studentT.TotalN <= normal.TotalN {
		t.Errorf("Student-t quantiles with few degrees of freedom should require more subjects: t %d vs normal %d",
			studentT.TotalN, normal.TotalN)
	}
}

func TestSampleSizeRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		req  SampleSizeRequest
	}{
		{"zero effect size", SampleSizeRequest{Clusters: 10, AvgClusterSize: 20}},
		{"negative effect size", SampleSizeRequest{EffectSize: -0.5, Clusters: 10, AvgClusterSize: 20}},
		{"power at one", SampleSizeRequest{EffectSize: 0.5, Power: 1, Clusters: 10, AvgClusterSize: 20}},
		{"significance above one", SampleSizeRequest{EffectSize: 0.5, SigLevel: 1.2, Clusters: 10, AvgClusterSize: 20}},
		{"no clusters", SampleSizeRequest{EffectSize: 0.5, AvgClusterSize: 20}},
		{"cluster size below one", SampleSizeRequest{EffectSize: 0.5, Clusters: 10, AvgClusterSize: 0.2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := SampleSize(tc.req); err == nil {
				t.Errorf("expected error for %+v", tc.req)
			}
		})
	}
}
