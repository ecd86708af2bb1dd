package repository

import (
	"context"
	"database/sql"

	internaldb "icare/internal/db"
	"icare/internal/domain"
)

const userColumns = `id, name, email, password_hash, is_admin, external_id, external_issuer, created_at, updated_at`

// UserRepo stores accounts.
type UserRepo struct {
	pool *internaldb.Pool
}

// NewUserRepo creates a UserRepo.
func NewUserRepo(pool *internaldb.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func scanUser(s scanner) (domain.User, error) {
	var (
		u        domain.User
		isAdmin  int64
		extID    sql.NullString
		extIssue sql.NullString
	)
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &isAdmin, &extID, &extIssue,
		&u.CreatedAt, &u.UpdatedAt)
	u.IsAdmin = isAdmin != 0
	u.ExternalID = nullStringPtr(extID)
	u.ExternalIssuer = nullStringPtr(extIssue)
	return u, err
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	out := *u
	if out.ID == "" {
		out.ID = domain.NewID()
	}
	out.CreatedAt = now()
	out.UpdatedAt = out.CreatedAt
	_, err := r.pool.Write.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.Name, out.Email, out.PasswordHash, boolToInt(out.IsAdmin),
		out.ExternalID, out.ExternalIssuer, out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err, "User")
	}
	return &out, nil
}

func (r *UserRepo) getOne(ctx context.Context, where string, args ...any) (*domain.User, error) {
	u, err := scanUser(r.pool.Read.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where, args...))
	if err != nil {
		return nil, mapDBError(err, "User")
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `email = ?`, email)
}

func (r *UserRepo) GetByExternalID(ctx context.Context, issuer, externalID string) (*domain.User, error) {
	return r.getOne(ctx, `external_issuer = ? AND external_id = ?`, issuer, externalID)
}

func (r *UserRepo) List(ctx context.Context, scope domain.Scope, page domain.PageRequest) ([]domain.User, int64, error) {
	where, args := scopeClause(scope, "id")
	return listPage(ctx, r.pool.Read,
		`SELECT COUNT(*) FROM users`+where,
		`SELECT `+userColumns+` FROM users`+where+` ORDER BY id DESC LIMIT ? OFFSET ?`,
		args, page, scanUser)
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	out := *u
	out.UpdatedAt = now()
	res, err := r.pool.Write.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, password_hash = ?, is_admin = ?, updated_at = ? WHERE id = ?`,
		out.Name, out.Email, out.PasswordHash, boolToInt(out.IsAdmin), out.UpdatedAt, out.ID)
	if err != nil {
		return nil, mapDBError(err, "User")
	}
	if err := checkUpdated(res, "User"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool.Write, "users", id, "User")
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.Read.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
