package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mattkaye3/sjstats/domain/core"
)

// VariableType classifies a column for role normalization and rescaling
type VariableType string

const (
	TypeNumeric     VariableType = "numeric"
	TypeCategorical VariableType = "categorical"
	TypeBoolean     VariableType = "boolean"
)

// Column represents one named variable of a Frame
// INVARIANTS:
// - Values holds one entry per observation, raw string form
// - Levels populated only for categorical columns, in rank order (lowest first)
type Column struct {
	Name   string       `json:"name"`
	Type   VariableType `json:"type"`
	Values []string     `json:"values"`
	Levels []string     `json:"levels,omitempty"`
}

// Frame is a tabular snapshot of model training data with named, typed
// columns. Treated as immutable once constructed.
type Frame struct {
	Columns []Column `json:"columns"`
}

// NewFrame creates a frame from columns, validating consistent lengths
func NewFrame(columns ...Column) (*Frame, error) {
	f := &Frame{Columns: columns}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// MustNewFrame creates a frame and panics on validation failure
func MustNewFrame(columns ...Column) *Frame {
	f, err := NewFrame(columns...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Frame) validate() error {
	seen := make(map[string]bool, len(f.Columns))
	for i, col := range f.Columns {
		if strings.TrimSpace(col.Name) == "" {
			return core.NewValidationError("column", fmt.Sprintf("column %d has empty name", i))
		}
		if seen[col.Name] {
			return core.NewValidationError("column", fmt.Sprintf("duplicate column name %q", col.Name))
		}
		seen[col.Name] = true
		if len(col.Values) != len(f.Columns[0].Values) {
			return core.NewValidationError("column", fmt.Sprintf("column %q has %d values, expected %d",
				col.Name, len(col.Values), len(f.Columns[0].Values)))
		}
	}
	return nil
}

// Rows returns the number of observations
func (f *Frame) Rows() int {
	if len(f.Columns) == 0 {
		return 0
	}
	return len(f.Columns[0].Values)
}

// Names returns column names in order
func (f *Frame) Names() []string {
	names := make([]string, len(f.Columns))
	for i, col := range f.Columns {
		names[i] = col.Name
	}
	return names
}

// Column finds a column by name
func (f *Frame) Column(name string) (*Column, error) {
	for i := range f.Columns {
		if f.Columns[i].Name == name {
			return &f.Columns[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", core.ErrColumnNotFound, name)
}

// HasColumn reports whether the frame contains the named column
func (f *Frame) HasColumn(name string) bool {
	_, err := f.Column(name)
	return err == nil
}

// WithColumns returns a copy of the frame with extra columns appended
func (f *Frame) WithColumns(columns ...Column) (*Frame, error) {
	combined := make([]Column, 0, len(f.Columns)+len(columns))
	combined = append(combined, f.Columns...)
	combined = append(combined, columns...)
	return NewFrame(combined...)
}

// Numeric parses the column values as floats
func (c *Column) Numeric() ([]float64, error) {
	out := make([]float64, len(c.Values))
	for i, v := range c.Values {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("column %q: value %q at row %d is not numeric", c.Name, v, i)
		}
		out[i] = parsed
	}
	return out, nil
}

// HighestLevel returns the highest-ranked category level of a categorical
// column: the last entry of the declared level order. Non-categorical
// columns have no levels and return the empty string.
func (c *Column) HighestLevel() string {
	if c.Type != TypeCategorical {
		return ""
	}
	levels := c.Levels
	if len(levels) == 0 {
		levels = appearanceLevels(c.Values)
	}
	if len(levels) == 0 {
		return ""
	}
	return levels[len(levels)-1]
}

// NewNumericColumn builds a numeric column from float values
func NewNumericColumn(name string, values []float64) Column {
	raw := make([]string, len(values))
	for i, v := range values {
		raw[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return Column{Name: name, Type: TypeNumeric, Values: raw}
}

// NewCategoricalColumn builds a categorical column. When levels is nil the
// level order is the order of first appearance in the values.
func NewCategoricalColumn(name string, values []string, levels []string) Column {
	if levels == nil {
		levels = appearanceLevels(values)
	}
	return Column{Name: name, Type: TypeCategorical, Values: values, Levels: levels}
}

// NewBooleanColumn builds a boolean column from raw TRUE/FALSE values
func NewBooleanColumn(name string, values []string) Column {
	return Column{Name: name, Type: TypeBoolean, Values: values}
}

// InferType classifies raw string values as numeric, boolean or categorical
func InferType(values []string) VariableType {
	if len(values) == 0 {
		return TypeCategorical
	}
	numeric := true
	boolean := true
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			numeric = false
		}
		if !isBooleanToken(v) {
			boolean = false
		}
		if !numeric && !boolean {
			return TypeCategorical
		}
	}
	// Only the literal TRUE/FALSE tokens count as boolean, so 0/1
	// columns stay numeric.
	if boolean {
		return TypeBoolean
	}
	if numeric {
		return TypeNumeric
	}
	return TypeCategorical
}

func isBooleanToken(v string) bool {
	switch strings.ToUpper(v) {
	case "TRUE", "FALSE":
		return true
	}
	return false
}

func appearanceLevels(values []string) []string {
	seen := make(map[string]bool)
	var levels []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		levels = append(levels, v)
	}
	return levels
}
