package estimate

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/Mattkaye3/sjstats/domain/core"
)

// Interval is a closed credible interval
type Interval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Width returns High - Low
func (iv Interval) Width() float64 {
	return iv.High - iv.Low
}

// HDI computes the highest density interval of a sample sequence: among all
// windows of size ceil(mass*N) over the sorted samples, the one with the
// smallest width. Mass must lie in (0, 1].
func HDI(samples []float64, mass float64) (Interval, error) {
	if mass <= 0 || mass > 1 || math.IsNaN(mass) {
		return Interval{}, fmt.Errorf("%w: got %v", core.ErrInvalidIntervalMass, mass)
	}
	n := len(samples)
	if n == 0 {
		return Interval{}, fmt.Errorf("%w: empty sample sequence", core.ErrInsufficientSamples)
	}

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	window := int(math.Ceil(mass * float64(n)))
	if window < 1 {
		window = 1
	}
	if window > n {
		window = n
	}

	bestLow := 0
	bestWidth := math.Inf(1)
	for i := 0; i+window <= n; i++ {
		width := sorted[i+window-1] - sorted[i]
		if width < bestWidth {
			bestWidth = width
			bestLow = i
		}
	}

	return Interval{Low: sorted[bestLow], High: sorted[bestLow+window-1]}, nil
}

// EqualTailed computes the central interval at the given mass, cutting
// (1-mass)/2 from each tail. For symmetric samples it coincides with the
// HDI, which makes it a useful cross-check.
func EqualTailed(samples []float64, mass float64) (Interval, error) {
	if mass <= 0 || mass > 1 || math.IsNaN(mass) {
		return Interval{}, fmt.Errorf("%w: got %v", core.ErrInvalidIntervalMass, mass)
	}
	if len(samples) == 0 {
		return Interval{}, fmt.Errorf("%w: empty sample sequence", core.ErrInsufficientSamples)
	}
	if mass == 1 {
		min, _ := stats.Min(samples)
		max, _ := stats.Max(samples)
		return Interval{Low: min, High: max}, nil
	}

	tail := (1 - mass) / 2 * 100
	low, err := stats.Percentile(samples, tail)
	if err != nil {
		return Interval{}, fmt.Errorf("lower percentile: %w", err)
	}
	high, err := stats.Percentile(samples, 100-tail)
	if err != nil {
		return Interval{}, fmt.Errorf("upper percentile: %w", err)
	}
	return Interval{Low: low, High: high}, nil
}
