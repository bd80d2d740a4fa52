package mediation

import "fmt"

// DiagnosticCode represents structured advisory types
type DiagnosticCode string

const (
	// DiagnosticBinaryResponse: a response is on a binary link scale, so
	// direct and indirect effects are not directly comparable
	DiagnosticBinaryResponse DiagnosticCode = "BINARY_RESPONSE"
	// DiagnosticUndefinedRatio: draws with zero total effect were dropped
	// from the proportion-mediated interval
	DiagnosticUndefinedRatio DiagnosticCode = "UNDEFINED_RATIO"
)

// Diagnostic is a non-fatal advisory carried on the result itself, never
// through a process-wide side channel
type Diagnostic struct {
	Code    DiagnosticCode `json:"code"`
	Message string         `json:"message"`
}

// NewBinaryResponseAdvisory builds the once-per-call advisory for models
// with a binary response equation
func NewBinaryResponseAdvisory(response string) Diagnostic {
	return Diagnostic{
		Code: DiagnosticBinaryResponse,
		Message: fmt.Sprintf("response %q is binary: consider standardizing predictors, effects are on different link scales",
			response),
	}
}

// NewUndefinedRatioWarning records how many draws were excluded from the
// proportion-mediated interval because their total effect is exactly zero
func NewUndefinedRatioWarning(excluded, total int) Diagnostic {
	return Diagnostic{
		Code: DiagnosticUndefinedRatio,
		Message: fmt.Sprintf("%d of %d draws have zero total effect and were excluded from the proportion-mediated interval",
			excluded, total),
	}
}

// HasDiagnostic reports whether a diagnostic with the given code is present
func HasDiagnostic(diagnostics []Diagnostic, code DiagnosticCode) bool {
	for _, d := range diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}
