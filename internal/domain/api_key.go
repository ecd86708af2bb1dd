package domain

import (
	"strings"
	"time"
)

// APIKey represents an API key for programmatic access, owned by the user it
// authenticates as.
type APIKey struct {
	ID        string
	OwnerID   string
	Name      string
	KeyPrefix string // first 8 chars for identification
	KeyHash   string // SHA-256 of raw key; raw key is never stored
	ExpiresAt *time.Time
	CreatedAt time.Time
}

func (k *APIKey) ResourceID() string    { return k.ID }
func (k *APIKey) ResourceOwner() string { return k.OwnerID }

// Expired reports whether the key has an expiry in the past.
func (k *APIKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && !k.ExpiresAt.After(now)
}

// CreateAPIKeyRequest holds parameters for creating a new API key.
type CreateAPIKeyRequest struct {
	Name      string
	ExpiresAt *time.Time
}

// Validate checks that the request is well-formed.
func (r *CreateAPIKeyRequest) Validate(now time.Time) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return ErrValidation("api key name is required")
	}
	if r.ExpiresAt != nil && !r.ExpiresAt.After(now) {
		return ErrValidation("expires_at must be in the future")
	}
	return nil
}
