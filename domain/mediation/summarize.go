package mediation

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Mattkaye3/sjstats/domain/core"
	"github.com/Mattkaye3/sjstats/domain/estimate"
)

// Labels of the five summary rows, in fixed output order
const (
	LabelDirect             = "direct"
	LabelIndirect           = "indirect"
	LabelMediator           = "mediator"
	LabelTotal              = "total"
	LabelProportionMediated = "proportion mediated"
)

// DefaultIntervalMass is the credible mass used when the caller does not
// choose one
const DefaultIntervalMass = 0.90

// Summary bundles the five effect rows with the interval mass actually
// used and any non-fatal diagnostics raised during estimation
type Summary struct {
	Rows        []EffectRow  `json:"rows"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Mass        float64      `json:"mass"`
}

// Summarize computes point estimates and highest-density intervals for the
// four raw effects and the proportion-mediated statistic.
//
// When several interval masses are passed only the first is used, the rest
// are silently discarded. The proportion-mediated point estimate is the
// ratio of typical values, and its interval is the point plus/minus half
// the width of the elementwise ratio's HDI, with zero-total draws excluded.
// The interval is therefore symmetric around the point.
func Summarize(draws EffectDraws, masses []float64, fn estimate.TypicalFunction) (Summary, error) {
	mass := DefaultIntervalMass
	if len(masses) > 0 {
		mass = masses[0]
	}

	effects := []struct {
		label   string
		samples []float64
	}{
		{LabelDirect, draws.Direct},
		{LabelIndirect, draws.Indirect},
		{LabelMediator, draws.Mediator},
		{LabelTotal, draws.Total},
	}

	rows := make([]EffectRow, len(effects)+1)

	// The four effect estimations are independent and read-only, so they
	// run concurrently on large draw counts without synchronization.
	var g errgroup.Group
	for i, effect := range effects {
		i, effect := i, effect
		g.Go(func() error {
			point, err := estimate.Typical(effect.samples, fn)
			if err != nil {
				return fmt.Errorf("%s effect: %w", effect.label, err)
			}
			iv, err := estimate.HDI(effect.samples, mass)
			if err != nil {
				return fmt.Errorf("%s effect: %w", effect.label, err)
			}
			rows[i] = EffectRow{
				Label:        effect.label,
				Estimate:     point,
				IntervalLow:  iv.Low,
				IntervalHigh: iv.High,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	var diagnostics []Diagnostic
	ratios, excluded := draws.RatioSequence()
	if excluded > 0 {
		diagnostics = append(diagnostics, NewUndefinedRatioWarning(excluded, draws.Draws()))
	}
	if len(ratios) == 0 {
		return Summary{}, fmt.Errorf("%w: all %d draws have zero total effect",
			core.ErrInsufficientSamples, draws.Draws())
	}

	ratioInterval, err := estimate.HDI(ratios, mass)
	if err != nil {
		return Summary{}, fmt.Errorf("proportion mediated: %w", err)
	}

	// Point estimate is typical(indirect)/typical(total), never the mean
	// of the unstable per-draw ratio.
	indirectPoint := rows[1].Estimate
	totalPoint := rows[3].Estimate
	point := indirectPoint / totalPoint
	margin := ratioInterval.Width() / 2

	rows[4] = EffectRow{
		Label:        LabelProportionMediated,
		Estimate:     point,
		IntervalLow:  point - margin,
		IntervalHigh: point + margin,
	}

	return Summary{Rows: rows, Diagnostics: diagnostics, Mass: mass}, nil
}
