// Package governance exposes the audit log to administrators.
package governance

import (
	"context"

	"icare/internal/access"
	"icare/internal/domain"
)

// AuditService provides audit log operations.
type AuditService struct {
	repo  domain.AuditRepository
	guard *access.Guard
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo domain.AuditRepository, guard *access.Guard) *AuditService {
	return &AuditService{repo: repo, guard: guard}
}

// List returns a filtered, paginated list of audit log entries, newest
// first. Requires admin privileges.
func (s *AuditService) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	if _, err := s.guard.Scope(ctx, access.Audit, false); err != nil {
		return nil, 0, err
	}
	if filter.Status != nil && *filter.Status != domain.AuditAllowed && *filter.Status != domain.AuditDenied {
		return nil, 0, domain.ErrValidation("status must be %s or %s", domain.AuditAllowed, domain.AuditDenied)
	}
	return s.repo.List(ctx, filter)
}
