// Package repository implements domain repository interfaces using SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"icare/internal/domain"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// now returns the timestamp stored on writes.
func now() time.Time {
	return time.Now().UTC()
}

// mapDBError translates driver errors into domain errors. label is the
// resource kind as users see it, e.g. "Ticket".
func mapDBError(err error, label string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound("%s Not Found", label)
	}
	if isUniqueViolation(err) {
		return domain.ErrConflict("%s already exists", label)
	}
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// scopeClause returns the WHERE fragment for an owner scope. col is the
// owner column, which for users is the primary key.
func scopeClause(scope domain.Scope, col string) (string, []any) {
	if !scope.Restricted() {
		return "", nil
	}
	return " WHERE " + col + " = ?", []any{scope.OwnerID}
}

// listPage runs a count query and a page query sharing the same filter
// arguments. The page query must end with "LIMIT ? OFFSET ?".
func listPage[T any](ctx context.Context, db *sql.DB, countSQL, listSQL string, args []any,
	page domain.PageRequest, scan func(scanner) (T, error)) ([]T, int64, error) {
	var total int64
	if err := db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listArgs := append(append([]any{}, args...), page.Limit(), page.Offset())
	rows, err := db.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, v)
	}
	return out, total, rows.Err()
}

// deleteByID removes one row and reports NotFound when nothing matched.
func deleteByID(ctx context.Context, db execer, table, id, label string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("%s Not Found", label)
	}
	return nil
}

// checkUpdated reports NotFound when an UPDATE matched no row.
func checkUpdated(res sql.Result, label string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("%s Not Found", label)
	}
	return nil
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func timePtrArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
