package mediation

import (
	"math"
	"testing"

	"github.com/Mattkaye3/sjstats/domain/core"
)

func TestCombineIdentities(t *testing.T) {
	direct := []float64{1.0, -0.5, 2.0, 0.25}
	mediatorEff := []float64{2.0, 1.5, -1.0, 4.0}
	tOnM := []float64{0.5, 0.5, 0.25, -2.0}

	draws, err := Combine(direct, mediatorEff, tOnM)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i := 0; i < draws.Draws(); i++ {
		wantIndirect := tOnM[i] * mediatorEff[i]
		if math.Abs(draws.Indirect[i]-wantIndirect) > 1e-12 {
			t.Errorf("Draw %d: indirect=%v, want %v", i, draws.Indirect[i], wantIndirect)
		}
		wantTotal := direct[i] + draws.Indirect[i]
		if math.Abs(draws.Total[i]-wantTotal) > 1e-12 {
			t.Errorf("Draw %d: total=%v, want %v", i, draws.Total[i], wantTotal)
		}
	}
}

func TestCombineLengthMismatch(t *testing.T) {
	_, err := Combine([]float64{1, 2}, []float64{1}, []float64{1, 2})
	if err == nil {
		t.Fatal("Expected error for mismatched sequence lengths")
	}
}

func TestCombineEmpty(t *testing.T) {
	_, err := Combine(nil, nil, nil)
	if !core.IsInsufficientSamplesError(err) {
		t.Errorf("Expected insufficient samples error, got %v", err)
	}
}

func TestRatioSequenceExclusion(t *testing.T) {
	draws := EffectDraws{
		Direct:   []float64{1, -2, 1},
		Mediator: []float64{2, 2, 2},
		Indirect: []float64{1, 2, 3},
		Total:    []float64{2, 0, 4},
	}

	ratios, excluded := draws.RatioSequence()
	if excluded != 1 {
		t.Errorf("Expected 1 excluded draw, got %d", excluded)
	}
	if len(ratios) != 2 {
		t.Fatalf("Expected 2 ratios, got %d", len(ratios))
	}
	if ratios[0] != 0.5 || ratios[1] != 0.75 {
		t.Errorf("Unexpected ratios: %v", ratios)
	}
}
