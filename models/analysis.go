package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Mattkaye3/sjstats/domain/core"
)

// JSONBDocument is a custom type for PostgreSQL JSONB columns that holds a
// pre-marshaled JSON document
type JSONBDocument []byte

// Value implements driver.Valuer interface
func (d JSONBDocument) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	if !json.Valid(d) {
		return nil, fmt.Errorf("invalid JSON document")
	}
	return []byte(d), nil
}

// Scan implements sql.Scanner interface
func (d *JSONBDocument) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		buf := make([]byte, len(v))
		copy(buf, v)
		*d = buf
	case string:
		*d = []byte(v)
	default:
		*d = nil
	}
	return nil
}

// MarshalJSON embeds the stored document verbatim instead of base64-encoding
// the byte slice
func (d JSONBDocument) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

// UnmarshalJSON captures the raw document bytes
func (d *JSONBDocument) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = nil
		return nil
	}
	*d = append((*d)[0:0], data...)
	return nil
}

// AnalysisRecord is the persisted form of a completed mediation analysis.
// Result holds the full effect table and diagnostics as a JSON document.
type AnalysisRecord struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	ModelName    string        `json:"model_name" db:"model_name"`
	SourceHash   string        `json:"source_hash" db:"source_hash"`
	Treatment    string        `json:"treatment" db:"treatment"`
	Mediator     string        `json:"mediator" db:"mediator"`
	Response     string        `json:"response" db:"response"`
	IntervalMass float64       `json:"interval_mass" db:"interval_mass"`
	Typical      string        `json:"typical" db:"typical"`
	Result       JSONBDocument `json:"result" db:"result"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}

// NewAnalysisRecord creates a record for a completed analysis with a fresh
// time-ordered identifier
func NewAnalysisRecord(modelName, sourceHash string, resultJSON []byte) *AnalysisRecord {
	return &AnalysisRecord{
		ID:         core.NewUUID(),
		ModelName:  modelName,
		SourceHash: sourceHash,
		Result:     JSONBDocument(resultJSON),
		CreatedAt:  time.Now().UTC(),
	}
}
