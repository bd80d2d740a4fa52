package model

import (
	"fmt"
	"strings"

	"github.com/Mattkaye3/sjstats/domain/core"
)

// Family describes the response distribution and link of one equation
type Family struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// IsBinary reports whether the family implies a binary response scale
func (f Family) IsBinary() bool {
	switch strings.ToLower(f.Name) {
	case "bernoulli", "binomial":
		return true
	}
	return false
}

// Equation is one response sub-model of a multivariate fit
type Equation struct {
	Response   string   `json:"response"`
	Predictors []string `json:"predictors"`
	Family     Family   `json:"family"`
}

// Validate checks structural soundness of an equation
func (e Equation) Validate() error {
	if strings.TrimSpace(e.Response) == "" {
		return core.NewValidationError("equation", "response name cannot be empty")
	}
	for i, p := range e.Predictors {
		if strings.TrimSpace(p) == "" {
			return core.NewValidationError("equation", fmt.Sprintf("predictor %d has empty name", i))
		}
	}
	return nil
}

// HasPredictor reports whether name appears in the predictor list
func (e Equation) HasPredictor(name string) bool {
	for _, p := range e.Predictors {
		if p == name {
			return true
		}
	}
	return false
}

// Formula renders the equation in the conventional response ~ predictors form
func (e Equation) Formula() string {
	if len(e.Predictors) == 0 {
		return e.Response + " ~ 1"
	}
	return e.Response + " ~ " + strings.Join(e.Predictors, " + ")
}

// CoefficientKey identifies one regression coefficient in the posterior store
type CoefficientKey string

// NewCoefficientKey builds the store key for a response/predictor pair.
// Convention: b_<response>_<predictor>, with underscores and dots stripped
// from the response name, matching how multivariate Bayesian fits name
// per-equation fixed effects. Categorical predictors arrive already
// suffixed with their encoded level name.
func NewCoefficientKey(response, predictor string) CoefficientKey {
	return CoefficientKey("b_" + SanitizeResponse(response) + "_" + predictor)
}

// String returns the string representation
func (k CoefficientKey) String() string {
	return string(k)
}

// SanitizeResponse strips the separator characters a response name loses
// when embedded in coefficient names
func SanitizeResponse(response string) string {
	r := strings.ReplaceAll(response, "_", "")
	return strings.ReplaceAll(r, ".", "")
}
