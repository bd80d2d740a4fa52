package mediation

import (
	"fmt"

	"github.com/Mattkaye3/sjstats/domain/core"
	"github.com/Mattkaye3/sjstats/domain/estimate"
	"github.com/Mattkaye3/sjstats/domain/model"
)

// EffectRow is one line of the mediation table. Immutable once assembled.
type EffectRow struct {
	Label        string  `json:"label"`
	Estimate     float64 `json:"estimate"`
	IntervalLow  float64 `json:"interval_low"`
	IntervalHigh float64 `json:"interval_high"`
}

// Metadata carries the provenance of a result for captions and storage
type Metadata struct {
	Treatment    string                   `json:"treatment"`
	Mediator     string                   `json:"mediator"`
	Response     string                   `json:"response"`
	IntervalMass float64                  `json:"interval_mass"`
	Typical      estimate.TypicalFunction `json:"typical"`
	Formulas     []string                 `json:"formulas"`
}

// Result is the assembled mediation table: five rows in fixed order
// (direct, indirect, mediator, total, proportion mediated), provenance
// metadata and the diagnostics raised during the call
type Result struct {
	Rows        []EffectRow  `json:"rows"`
	Metadata    Metadata     `json:"metadata"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Assemble packages a summary with its provenance. Pure data
// transformation; the only failures are malformed inputs.
func Assemble(summary Summary, roles Roles, equations []model.Equation, fn estimate.TypicalFunction, diagnostics []Diagnostic) (*Result, error) {
	if len(summary.Rows) != 5 {
		return nil, core.NewValidationError("summary",
			fmt.Sprintf("expected 5 effect rows, got %d", len(summary.Rows)))
	}
	if roles.OutcomeEq >= len(equations) || roles.MediatorEq >= len(equations) {
		return nil, core.NewValidationError("roles",
			fmt.Sprintf("equation index out of range: outcome=%d mediator=%d of %d equations",
				roles.OutcomeEq, roles.MediatorEq, len(equations)))
	}
	if err := roles.Validate(); err != nil {
		return nil, err
	}

	formulas := make([]string, len(equations))
	for i, eq := range equations {
		formulas[i] = eq.Formula()
	}

	combined := make([]Diagnostic, 0, len(diagnostics)+len(summary.Diagnostics))
	combined = append(combined, diagnostics...)
	combined = append(combined, summary.Diagnostics...)

	return &Result{
		Rows: summary.Rows,
		Metadata: Metadata{
			Treatment:    roles.Treatment,
			Mediator:     roles.Mediator,
			Response:     equations[roles.OutcomeEq].Response,
			IntervalMass: summary.Mass,
			Typical:      fn,
			Formulas:     formulas,
		},
		Diagnostics: combined,
	}, nil
}

// Row returns the row with the given label
func (r *Result) Row(label string) (EffectRow, bool) {
	for _, row := range r.Rows {
		if row.Label == label {
			return row, true
		}
	}
	return EffectRow{}, false
}
