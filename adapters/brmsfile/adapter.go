package brmsfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Mattkaye3/sjstats/domain/core"
	"github.com/Mattkaye3/sjstats/domain/dataset"
	"github.com/Mattkaye3/sjstats/domain/model"
	"github.com/Mattkaye3/sjstats/ports"
)

// Model is a fitted model backed by files on disk: a manifest, a posterior
// draw matrix, and optionally the raw modeling data
type Model struct {
	name       string
	equations  []model.Equation
	keys       []model.CoefficientKey
	draws      map[model.CoefficientKey][]float64
	data       *dataset.Frame
	sourceHash core.SourceHash
}

// Load reads a fitted model from a model directory
func Load(dir string) (*Model, error) {
	manifest, err := LoadManifest(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return nil, err
	}
	equations, err := manifest.ModelEquations()
	if err != nil {
		return nil, err
	}

	drawsPath := filepath.Join(dir, manifest.DrawsFile)
	header, columns, err := ReadDrawMatrix(drawsPath)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(drawsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read draw matrix: %w", err)
	}

	keys := make([]model.CoefficientKey, len(header))
	draws := make(map[model.CoefficientKey][]float64, len(header))
	for i, h := range header {
		keys[i] = model.CoefficientKey(h)
		draws[keys[i]] = columns[h]
	}

	var frame *dataset.Frame
	if manifest.DataFile != "" {
		table, err := NewDataReader(filepath.Join(dir, manifest.DataFile)).ReadTable()
		if err != nil {
			return nil, err
		}
		frame, err = BuildFrame(table, manifest.Variables)
		if err != nil {
			return nil, err
		}
	}

	return &Model{
		name:       manifest.Name,
		equations:  equations,
		keys:       keys,
		draws:      draws,
		data:       frame,
		sourceHash: core.NewSourceHash(raw),
	}, nil
}

// Name returns the manifest's model name
func (m *Model) Name() string {
	return m.name
}

// SourceHash returns the sha256 of the draw matrix file
func (m *Model) SourceHash() core.SourceHash {
	return m.sourceHash
}

// Equations returns the response equations in manifest order
func (m *Model) Equations() []model.Equation {
	return m.equations
}

// IsBinary reports whether the named response uses a binary family
func (m *Model) IsBinary(response string) bool {
	for _, eq := range m.equations {
		if eq.Response == response {
			return eq.Family.IsBinary()
		}
	}
	return false
}

// RawData returns the modeling data, nil when the manifest names none
func (m *Model) RawData() *dataset.Frame {
	return m.data
}

// Coefficients lists the draw matrix columns in header order
func (m *Model) Coefficients() []model.CoefficientKey {
	keys := make([]model.CoefficientKey, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// PosteriorSamples returns the stored draws for a coefficient
func (m *Model) PosteriorSamples(key model.CoefficientKey) ([]float64, error) {
	draws, ok := m.draws[key]
	if !ok {
		return nil, core.NewCoefficientNotFoundError(string(key))
	}
	return draws, nil
}

// BuildFrame builds a typed frame from a raw header-plus-rows table. Columns
// with a manifest declaration use the declared type and level order, the rest
// get their type inferred from the values.
func BuildFrame(table [][]string, variables []ManifestVariable) (*dataset.Frame, error) {
	if len(table) < 2 {
		return nil, fmt.Errorf("data file must have a header row and at least one data row")
	}
	header := table[0]
	for rowIdx, row := range table[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("data row %d has %d values, expected %d",
				rowIdx+1, len(row), len(header))
		}
	}

	declared := make(map[string]ManifestVariable, len(variables))
	for _, v := range variables {
		declared[v.Name] = v
	}

	columns := make([]dataset.Column, len(header))
	for colIdx, name := range header {
		values := make([]string, 0, len(table)-1)
		for _, row := range table[1:] {
			values = append(values, strings.TrimSpace(row[colIdx]))
		}

		if v, ok := declared[name]; ok {
			column, err := declaredColumn(name, values, v)
			if err != nil {
				return nil, err
			}
			columns[colIdx] = column
			continue
		}

		switch dataset.InferType(values) {
		case dataset.TypeBoolean:
			columns[colIdx] = dataset.NewBooleanColumn(name, values)
		case dataset.TypeCategorical:
			columns[colIdx] = dataset.NewCategoricalColumn(name, values, nil)
		default:
			columns[colIdx] = dataset.Column{Name: name, Type: dataset.TypeNumeric, Values: values}
		}
	}
	return dataset.NewFrame(columns...)
}

func declaredColumn(name string, values []string, v ManifestVariable) (dataset.Column, error) {
	switch strings.ToLower(v.Type) {
	case "numeric":
		return dataset.Column{Name: name, Type: dataset.TypeNumeric, Values: values}, nil
	case "categorical":
		return dataset.NewCategoricalColumn(name, values, v.Levels), nil
	case "boolean":
		return dataset.NewBooleanColumn(name, values), nil
	default:
		return dataset.Column{}, fmt.Errorf("variable %q has unsupported type %q", name, v.Type)
	}
}

// Loader implements ModelLoader for model directories
type Loader struct{}

// NewLoader creates a model directory loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the fitted model stored under the given directory
func (l *Loader) Load(dir string) (ports.FittedModel, error) {
	return Load(dir)
}

// Ensure the adapter satisfies its ports
var (
	_ ports.FittedModel = (*Model)(nil)
	_ ports.ModelLoader = (*Loader)(nil)
)
