package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrAnalysisNotFound = fmt.Errorf("%w: analysis", ErrNotFound)
	ErrColumnNotFound   = fmt.Errorf("%w: column", ErrNotFound)

	// Model shape and role resolution errors
	ErrUnsupportedModelShape = errors.New("model must contain at least two response equations")
	ErrAmbiguousRole         = errors.New("ambiguous role")
	ErrCoefficientNotFound   = errors.New("coefficient not found in posterior store")

	// Estimation errors
	ErrInsufficientSamples = errors.New("insufficient samples for interval estimation")
	ErrInvalidIntervalMass = errors.New("interval mass must lie in (0, 1]")

	// Input validation errors
	ErrValidation = errors.New("validation failed")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewUnsupportedModelShapeError(equationCount int) error {
	return fmt.Errorf("%w: model has %d", ErrUnsupportedModelShape, equationCount)
}

// NewAmbiguousRoleError reports a failed automatic role detection. The
// candidate list distinguishes "nothing matched" from "too many matched";
// either way the caller is told to pass the role explicitly.
func NewAmbiguousRoleError(role string, candidates []string) error {
	if len(candidates) == 0 {
		return fmt.Errorf("%w: no %s candidate found, please specify the %s explicitly", ErrAmbiguousRole, role, role)
	}
	return fmt.Errorf("%w: several %s candidates (%s), please specify the %s explicitly",
		ErrAmbiguousRole, role, strings.Join(candidates, ", "), role)
}

func NewCoefficientNotFoundError(key string) error {
	return fmt.Errorf("%w: %s", ErrCoefficientNotFound, key)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrValidation, field, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUnsupportedModelShapeError(err error) bool {
	return errors.Is(err, ErrUnsupportedModelShape)
}

func IsAmbiguousRoleError(err error) bool {
	return errors.Is(err, ErrAmbiguousRole)
}

func IsCoefficientNotFoundError(err error) bool {
	return errors.Is(err, ErrCoefficientNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsInsufficientSamplesError(err error) bool {
	return errors.Is(err, ErrInsufficientSamples)
}

func IsRoleResolutionError(err error) bool {
	return errors.Is(err, ErrUnsupportedModelShape) ||
		errors.Is(err, ErrAmbiguousRole)
}
