package domain

import "time"

// Audit statuses.
const (
	AuditAllowed = "ALLOWED"
	AuditDenied  = "DENIED"
)

// AuditEntry represents a single audit log record.
type AuditEntry struct {
	ID           string
	PrincipalID  string
	Action       string
	ResourceKind string
	ResourceID   string
	Status       string // "ALLOWED" or "DENIED"
	Message      string
	CreatedAt    time.Time
}

// AuditFilter holds filter parameters for querying audit logs.
type AuditFilter struct {
	PrincipalID  *string
	ResourceKind *string
	Status       *string
	Page         PageRequest
}
