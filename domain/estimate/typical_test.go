package estimate

import (
	"math"
	"testing"

	"github.com/Mattkaye3/sjstats/domain/core"
)

func TestTypicalMedianAndMean(t *testing.T) {
	samples := []float64{1, 2, 3, 4, 100}

	median, err := Typical(samples, TypicalMedian)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if median != 3 {
		t.Errorf("Expected median 3, got %v", median)
	}

	mean, err := Typical(samples, TypicalMean)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if mean != 22 {
		t.Errorf("Expected mean 22, got %v", mean)
	}
}

func TestTypicalEmptyInput(t *testing.T) {
	_, err := Typical(nil, TypicalMedian)
	if !core.IsInsufficientSamplesError(err) {
		t.Errorf("Expected insufficient samples error, got %v", err)
	}
}

func TestParseTypicalFunction(t *testing.T) {
	tests := []struct {
		input    string
		expected TypicalFunction
		hasError bool
	}{
		{"", TypicalMedian, false},
		{"median", TypicalMedian, false},
		{"mean", TypicalMean, false},
		{"mode", "", true},
	}

	for _, test := range tests {
		got, err := ParseTypicalFunction(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for %q", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for %q: %v", test.input, err)
		}
		if got != test.expected {
			t.Errorf("%q: expected %s, got %s", test.input, test.expected, got)
		}
	}
}

func TestProbabilityOfDirection(t *testing.T) {
	pd, err := ProbabilityOfDirection([]float64{1, 2, 3, -1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(pd-0.75) > 1e-12 {
		t.Errorf("Expected pd 0.75, got %v", pd)
	}

	pd, err = ProbabilityOfDirection([]float64{-1, -2})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if pd != 1 {
		t.Errorf("Expected pd 1 for one-sided samples, got %v", pd)
	}

	// Zeros sit on neither side but stay in the denominator
	pd, err = ProbabilityOfDirection([]float64{0, 0, 1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(pd-1.0/3.0) > 1e-12 {
		t.Errorf("Expected pd 1/3, got %v", pd)
	}
}
