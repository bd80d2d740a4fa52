package brmsfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Mattkaye3/sjstats/domain/model"
)

// ManifestFileName is the fixed manifest name inside a model directory
const ManifestFileName = "manifest.yaml"

// Manifest describes a stored fitted model: the equations, the posterior
// draw matrix, and the raw modeling data
type Manifest struct {
	Name      string             `yaml:"name"`
	Equations []ManifestEquation `yaml:"equations"`
	DrawsFile string             `yaml:"draws_file"`
	DataFile  string             `yaml:"data_file,omitempty"`
	Variables []ManifestVariable `yaml:"variables,omitempty"`
}

// ManifestEquation is one response equation of the model
type ManifestEquation struct {
	Response   string   `yaml:"response"`
	Predictors []string `yaml:"predictors"`
	Family     string   `yaml:"family"`
	Link       string   `yaml:"link"`
}

// ManifestVariable optionally pins a data column's type and level order.
// Columns not listed get their type inferred from the values.
type ManifestVariable struct {
	Name   string   `yaml:"name"`
	Type   string   `yaml:"type"`
	Levels []string `yaml:"levels,omitempty"`
}

// LoadManifest reads and validates a model manifest
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest for structural problems
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest is missing a model name")
	}
	if len(m.Equations) == 0 {
		return fmt.Errorf("manifest %q declares no equations", m.Name)
	}
	if m.DrawsFile == "" {
		return fmt.Errorf("manifest %q is missing the draws file", m.Name)
	}
	for i, eq := range m.Equations {
		if eq.Response == "" {
			return fmt.Errorf("manifest %q: equation %d has no response", m.Name, i)
		}
	}
	return nil
}

// ModelEquations converts the manifest equations into domain equations
func (m *Manifest) ModelEquations() ([]model.Equation, error) {
	equations := make([]model.Equation, len(m.Equations))
	for i, eq := range m.Equations {
		equations[i] = model.Equation{
			Response:   eq.Response,
			Predictors: eq.Predictors,
			Family:     model.Family{Name: eq.Family, Link: eq.Link},
		}
		if err := equations[i].Validate(); err != nil {
			return nil, fmt.Errorf("manifest %q: %w", m.Name, err)
		}
	}
	return equations, nil
}
