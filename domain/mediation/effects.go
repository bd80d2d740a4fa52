package mediation

import (
	"fmt"

	"github.com/Mattkaye3/sjstats/domain/core"
)

// EffectDraws holds the per-draw effect decomposition of one mediation
// analysis
// INVARIANTS (for every draw i):
// - Indirect[i] = treatment-on-mediator[i] * Mediator[i]
// - Total[i] = Direct[i] + Indirect[i]
type EffectDraws struct {
	Direct   []float64 `json:"direct"`
	Mediator []float64 `json:"mediator"`
	Indirect []float64 `json:"indirect"`
	Total    []float64 `json:"total"`
}

// Combine derives the indirect and total sequences from the three extracted
// coefficient sequences: direct (treatment on outcome), mediatorEff
// (mediator on outcome) and tOnM (treatment on mediator).
func Combine(direct, mediatorEff, tOnM []float64) (EffectDraws, error) {
	n := len(direct)
	if len(mediatorEff) != n || len(tOnM) != n {
		return EffectDraws{}, core.NewValidationError("draws",
			fmt.Sprintf("sample sequences differ in length: direct=%d mediator=%d treatment-on-mediator=%d",
				n, len(mediatorEff), len(tOnM)))
	}
	if n == 0 {
		return EffectDraws{}, fmt.Errorf("%w: no posterior draws", core.ErrInsufficientSamples)
	}

	indirect := make([]float64, n)
	total := make([]float64, n)
	for i := 0; i < n; i++ {
		indirect[i] = tOnM[i] * mediatorEff[i]
		total[i] = direct[i] + indirect[i]
	}

	return EffectDraws{
		Direct:   direct,
		Mediator: mediatorEff,
		Indirect: indirect,
		Total:    total,
	}, nil
}

// Draws returns the number of posterior draws
func (d EffectDraws) Draws() int {
	return len(d.Direct)
}

// RatioSequence returns the elementwise indirect/total ratio over draws
// with nonzero total, plus the count of excluded draws. The ratio is
// undefined where the total effect is exactly zero.
func (d EffectDraws) RatioSequence() (ratios []float64, excluded int) {
	ratios = make([]float64, 0, len(d.Total))
	for i, total := range d.Total {
		if total == 0 {
			excluded++
			continue
		}
		ratios = append(ratios, d.Indirect[i]/total)
	}
	return ratios, excluded
}
