package core

import (
	"github.com/google/uuid"
)

// NewUUID generates a time-ordered identifier. UUID v7 keeps stored
// analyses sortable by creation time; v4 is the fallback when v7
// generation is unavailable.
func NewUUID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id
}
