// Package auditutil writes audit log entries on behalf of services. Audit
// writes never fail the operation they describe.
package auditutil

import (
	"context"

	"icare/internal/domain"
)

// LogAllowed records a completed mutation.
func LogAllowed(ctx context.Context, audit domain.AuditRepository, principalID, action, kind, resourceID, detail string) {
	logDecision(ctx, audit, principalID, action, kind, resourceID, domain.AuditAllowed, detail)
}

// LogDenied records a refused request.
func LogDenied(ctx context.Context, audit domain.AuditRepository, principalID, action, kind, resourceID, detail string) {
	logDecision(ctx, audit, principalID, action, kind, resourceID, domain.AuditDenied, detail)
}

// Mutation records a completed mutation by the caller in ctx.
func Mutation(ctx context.Context, audit domain.AuditRepository, action, kind, resourceID, detail string) {
	LogAllowed(ctx, audit, Caller(ctx), action, kind, resourceID, detail)
}

// Caller returns the id of the principal in ctx, or "" for anonymous calls.
func Caller(ctx context.Context) string {
	p, _ := domain.PrincipalFromContext(ctx)
	return p.ID
}

func logDecision(ctx context.Context, audit domain.AuditRepository, principalID, action, kind, resourceID, status, detail string) {
	if audit == nil {
		return
	}
	_ = audit.Insert(ctx, &domain.AuditEntry{
		PrincipalID:  principalID,
		Action:       action,
		ResourceKind: kind,
		ResourceID:   resourceID,
		Status:       status,
		Message:      detail,
	})
}
