package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// SourceHash identifies the exact posterior-draw matrix an analysis was
// computed from. Stored with the analysis for provenance.
type SourceHash Hash

// NewSourceHash creates a source hash from raw file bytes
func NewSourceHash(data []byte) SourceHash { return SourceHash(NewHash(data)) }

// String returns the string representation
func (h SourceHash) String() string { return Hash(h).String() }

// IsEmpty checks if the hash is empty
func (h SourceHash) IsEmpty() bool { return Hash(h).IsEmpty() }
