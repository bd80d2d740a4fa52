package mediation

import (
	"fmt"

	"github.com/Mattkaye3/sjstats/domain/core"
	"github.com/Mattkaye3/sjstats/domain/dataset"
	"github.com/Mattkaye3/sjstats/domain/model"
)

// ResolveRoles determines treatment, mediator and their equations from the
// model's equation list, either from explicit caller input or by inference
// over the predictor/response overlap.
//
// The mediator is the response that also appears as a predictor of the
// outcome equation. The treatment is a predictor shared by the mediator
// equation and the outcome equation, first by position in the mediator
// equation's predictor list. Auto-detected names are normalized against the
// raw data to match the coefficient store (categorical variables gain their
// highest-ranked level as a suffix, booleans gain TRUE); explicit names are
// taken verbatim.
func ResolveRoles(equations []model.Equation, data *dataset.Frame, treatment, mediator string) (Roles, error) {
	if len(equations) < 2 {
		return Roles{}, core.NewUnsupportedModelShapeError(len(equations))
	}

	responses := make(map[string]int, len(equations))
	for i, eq := range equations {
		responses[eq.Response] = i
	}
	if len(responses) < 2 {
		return Roles{}, core.NewUnsupportedModelShapeError(len(responses))
	}

	mediatorExplicit := mediator != ""
	treatmentExplicit := treatment != ""

	outcomeIdx, err := locateOutcomeEquation(equations, responses, mediator)
	if err != nil {
		return Roles{}, err
	}

	if !mediatorExplicit {
		candidates := mediatorCandidates(equations[outcomeIdx], responses)
		if len(candidates) != 1 {
			return Roles{}, core.NewAmbiguousRoleError("mediator", candidates)
		}
		mediator = candidates[0]
	}

	mediatorIdx, ok := responses[mediator]
	if !ok {
		return Roles{}, core.NewValidationError("mediator",
			fmt.Sprintf("%q is not the response of any equation", mediator))
	}
	if mediatorIdx == outcomeIdx {
		return Roles{}, core.NewValidationError("mediator",
			fmt.Sprintf("%q resolves to the outcome equation itself", mediator))
	}

	if !treatmentExplicit {
		mediatorEq := equations[mediatorIdx]
		outcomeEq := equations[outcomeIdx]
		for _, p := range mediatorEq.Predictors {
			if outcomeEq.HasPredictor(p) {
				treatment = p
				break
			}
		}
		if treatment == "" {
			return Roles{}, core.NewAmbiguousRoleError("treatment", nil)
		}
	}

	// Normalization is reserved for auto-detected roles; explicit names
	// are assumed to already match the coefficient store.
	if !mediatorExplicit {
		mediator = normalizeLookupName(mediator, data)
	}
	if !treatmentExplicit {
		treatment = normalizeLookupName(treatment, data)
	}

	return NewRoles(treatment, mediator, outcomeIdx, mediatorIdx)
}

// locateOutcomeEquation finds the equation the mediation table is read
// from. With an explicit mediator it is the equation listing the mediator
// as predictor; otherwise the unique equation whose predictors overlap the
// response set.
func locateOutcomeEquation(equations []model.Equation, responses map[string]int, mediator string) (int, error) {
	var hits []int
	if mediator != "" {
		for i, eq := range equations {
			if eq.HasPredictor(mediator) {
				hits = append(hits, i)
			}
		}
	} else {
		for i, eq := range equations {
			for _, p := range eq.Predictors {
				if idx, ok := responses[p]; ok && idx != i {
					hits = append(hits, i)
					break
				}
			}
		}
	}

	if len(hits) != 1 {
		names := make([]string, len(hits))
		for i, h := range hits {
			names[i] = equations[h].Response
		}
		return 0, core.NewAmbiguousRoleError("outcome equation", names)
	}
	return hits[0], nil
}

// mediatorCandidates intersects the outcome equation's predictors with the
// response-name set, preserving predictor order
func mediatorCandidates(outcome model.Equation, responses map[string]int) []string {
	var candidates []string
	for _, p := range outcome.Predictors {
		if _, ok := responses[p]; ok && p != outcome.Response {
			candidates = append(candidates, p)
		}
	}
	return candidates
}

// normalizeLookupName appends the level suffix the coefficient store uses
// for non-numeric predictors. Unknown columns pass through unchanged.
func normalizeLookupName(name string, data *dataset.Frame) string {
	if data == nil {
		return name
	}
	col, err := data.Column(name)
	if err != nil {
		return name
	}

	switch col.Type {
	case dataset.TypeCategorical:
		if level := col.HighestLevel(); level != "" {
			return name + level
		}
	case dataset.TypeBoolean:
		return name + "TRUE"
	}
	return name
}
