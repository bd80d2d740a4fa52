package estimate

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/Mattkaye3/sjstats/domain/core"
)

// TypicalFunction selects the point summary applied to a posterior sample
// sequence
type TypicalFunction string

const (
	TypicalMedian TypicalFunction = "median"
	TypicalMean   TypicalFunction = "mean"
)

// ParseTypicalFunction parses a typical-function name; empty input selects
// the median default
func ParseTypicalFunction(s string) (TypicalFunction, error) {
	switch TypicalFunction(s) {
	case "":
		return TypicalMedian, nil
	case TypicalMedian, TypicalMean:
		return TypicalFunction(s), nil
	}
	return "", core.NewValidationError("typical", fmt.Sprintf("unknown typical function %q (use median or mean)", s))
}

// Typical computes the point summary of a sample sequence
func Typical(samples []float64, fn TypicalFunction) (float64, error) {
	if len(samples) == 0 {
		return 0, fmt.Errorf("%w: empty sample sequence", core.ErrInsufficientSamples)
	}

	switch fn {
	case TypicalMean:
		return stats.Mean(samples)
	case TypicalMedian, "":
		return stats.Median(samples)
	}
	return 0, core.NewValidationError("typical", fmt.Sprintf("unknown typical function %q", fn))
}

// ProbabilityOfDirection returns the share of draws on the dominant side of
// zero, the usual effect-existence index for posterior samples
func ProbabilityOfDirection(samples []float64) (float64, error) {
	if len(samples) == 0 {
		return 0, fmt.Errorf("%w: empty sample sequence", core.ErrInsufficientSamples)
	}

	var positive, negative int
	for _, v := range samples {
		switch {
		case v > 0:
			positive++
		case v < 0:
			negative++
		}
	}

	dominant := positive
	if negative > dominant {
		dominant = negative
	}
	return float64(dominant) / float64(len(samples)), nil
}
