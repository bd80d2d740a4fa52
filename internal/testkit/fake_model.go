package testkit

import (
	"sort"

	"github.com/Mattkaye3/sjstats/domain/core"
	"github.com/Mattkaye3/sjstats/domain/dataset"
	"github.com/Mattkaye3/sjstats/domain/model"
	"github.com/Mattkaye3/sjstats/ports"
)

// FakeFittedModel is an in-memory FittedModel for tests
type FakeFittedModel struct {
	equations []model.Equation
	draws     map[model.CoefficientKey][]float64
	data      *dataset.Frame
}

// NewFakeFittedModel creates a fake model with the given equations
func NewFakeFittedModel(equations ...model.Equation) *FakeFittedModel {
	return &FakeFittedModel{
		equations: equations,
		draws:     make(map[model.CoefficientKey][]float64),
	}
}

// WithDraws registers posterior draws for one coefficient
func (m *FakeFittedModel) WithDraws(response, predictor string, draws []float64) *FakeFittedModel {
	m.draws[model.NewCoefficientKey(response, predictor)] = draws
	return m
}

// WithRawData attaches the modeling data frame
func (m *FakeFittedModel) WithRawData(frame *dataset.Frame) *FakeFittedModel {
	m.data = frame
	return m
}

// Equations returns the response equations in declaration order
func (m *FakeFittedModel) Equations() []model.Equation {
	return m.equations
}

// IsBinary reports whether the named response uses a binary family
func (m *FakeFittedModel) IsBinary(response string) bool {
	for _, eq := range m.equations {
		if eq.Response == response {
			return eq.Family.IsBinary()
		}
	}
	return false
}

// RawData returns the attached modeling data, nil when none was set
func (m *FakeFittedModel) RawData() *dataset.Frame {
	return m.data
}

// Coefficients lists the registered coefficient keys in sorted order
func (m *FakeFittedModel) Coefficients() []model.CoefficientKey {
	keys := make([]model.CoefficientKey, 0, len(m.draws))
	for key := range m.draws {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// PosteriorSamples returns the registered draws for a coefficient
func (m *FakeFittedModel) PosteriorSamples(key model.CoefficientKey) ([]float64, error) {
	draws, ok := m.draws[key]
	if !ok {
		return nil, core.NewCoefficientNotFoundError(string(key))
	}
	return draws, nil
}

// Ensure FakeFittedModel implements the port
var _ ports.FittedModel = (*FakeFittedModel)(nil)
