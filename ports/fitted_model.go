package ports

import (
	"github.com/Mattkaye3/sjstats/domain/dataset"
	"github.com/Mattkaye3/sjstats/domain/model"
)

// FittedModel exposes a fitted multivariate Bayesian model to the
// application layer without tying it to any storage format
type FittedModel interface {
	// Equations returns the response equations in declaration order
	Equations() []model.Equation

	// IsBinary reports whether the named response uses a binary family
	IsBinary(response string) bool

	// RawData returns the data the model was fit on, nil when unavailable
	RawData() *dataset.Frame

	// Coefficients lists every coefficient with stored posterior draws
	Coefficients() []model.CoefficientKey

	// PosteriorSamples returns the posterior draws for a coefficient
	PosteriorSamples(key model.CoefficientKey) ([]float64, error)
}

// ModelLoader opens fitted models from a storage location
type ModelLoader interface {
	// Load reads the fitted model stored under the given directory
	Load(dir string) (FittedModel, error)
}
