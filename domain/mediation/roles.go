package mediation

import (
	"fmt"

	"github.com/Mattkaye3/sjstats/domain/core"
)

// Roles fixes who plays what in the mediation triangle
// INVARIANTS:
// - OutcomeEq != MediatorEq, both valid indices into the equation list
// - Treatment and Mediator hold coefficient-lookup names: level-suffixed
//   when the role was auto-detected and the variable is categorical or
//   boolean, verbatim caller input otherwise
type Roles struct {
	Treatment  string `json:"treatment"`
	Mediator   string `json:"mediator"`
	OutcomeEq  int    `json:"outcome_equation"`
	MediatorEq int    `json:"mediator_equation"`
}

// NewRoles creates a validated role assignment
func NewRoles(treatment, mediator string, outcomeEq, mediatorEq int) (Roles, error) {
	r := Roles{
		Treatment:  treatment,
		Mediator:   mediator,
		OutcomeEq:  outcomeEq,
		MediatorEq: mediatorEq,
	}
	if err := r.Validate(); err != nil {
		return Roles{}, err
	}
	return r, nil
}

// MustNewRoles creates a role assignment and panics on validation failure
func MustNewRoles(treatment, mediator string, outcomeEq, mediatorEq int) Roles {
	r, err := NewRoles(treatment, mediator, outcomeEq, mediatorEq)
	if err != nil {
		panic(err)
	}
	return r
}

// Validate checks the role invariants
func (r Roles) Validate() error {
	if r.Treatment == "" {
		return core.NewValidationError("roles", "treatment name cannot be empty")
	}
	if r.Mediator == "" {
		return core.NewValidationError("roles", "mediator name cannot be empty")
	}
	if r.OutcomeEq < 0 || r.MediatorEq < 0 {
		return core.NewValidationError("roles", "equation indices cannot be negative")
	}
	if r.OutcomeEq == r.MediatorEq {
		return core.NewValidationError("roles",
			fmt.Sprintf("outcome and mediator equations must differ, both are %d", r.OutcomeEq))
	}
	return nil
}
