package domain

import (
	"github.com/google/uuid"
)

// NewID generates a UUIDv7 string for a new record.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ValidID reports whether s is a well-formed record id.
func ValidID(s string) bool {
	if s == "" {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
