package repository

import (
	"context"
	"strings"

	internaldb "icare/internal/db"
	"icare/internal/domain"
)

const auditColumns = `id, principal_id, action, resource_kind, resource_id, status, message, created_at`

// AuditRepo appends to and queries the audit log.
type AuditRepo struct {
	pool *internaldb.Pool
}

func NewAuditRepo(pool *internaldb.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	id := e.ID
	if id == "" {
		id = domain.NewID()
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = now()
	}
	_, err := r.pool.Write.ExecContext(ctx,
		`INSERT INTO audit_log (`+auditColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, e.PrincipalID, e.Action, e.ResourceKind, e.ResourceID, e.Status, e.Message, created.UTC())
	return err
}

func (r *AuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	var (
		conds []string
		args  []any
	)
	if filter.PrincipalID != nil {
		conds = append(conds, "principal_id = ?")
		args = append(args, *filter.PrincipalID)
	}
	if filter.ResourceKind != nil {
		conds = append(conds, "resource_kind = ?")
		args = append(args, *filter.ResourceKind)
	}
	if filter.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, *filter.Status)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	// Newest first; ids are time-ordered.
	return listPage(ctx, r.pool.Read,
		`SELECT COUNT(*) FROM audit_log`+where,
		`SELECT `+auditColumns+` FROM audit_log`+where+` ORDER BY id DESC LIMIT ? OFFSET ?`,
		args, filter.Page, func(s scanner) (domain.AuditEntry, error) {
			var e domain.AuditEntry
			err := s.Scan(&e.ID, &e.PrincipalID, &e.Action, &e.ResourceKind, &e.ResourceID,
				&e.Status, &e.Message, &e.CreatedAt)
			return e, err
		})
}
