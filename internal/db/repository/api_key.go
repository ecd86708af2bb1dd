package repository

import (
	"context"
	"database/sql"
	"time"

	internaldb "icare/internal/db"
	"icare/internal/domain"
)

const apiKeyColumns = `id, owner_id, name, key_prefix, key_hash, expires_at, created_at`

// APIKeyRepo stores hashed API keys.
type APIKeyRepo struct {
	pool *internaldb.Pool
}

// NewAPIKeyRepo creates a new APIKeyRepo.
func NewAPIKeyRepo(pool *internaldb.Pool) *APIKeyRepo {
	return &APIKeyRepo{pool: pool}
}

func scanAPIKey(s scanner) (domain.APIKey, error) {
	var (
		k       domain.APIKey
		expires sql.NullTime
	)
	err := s.Scan(&k.ID, &k.OwnerID, &k.Name, &k.KeyPrefix, &k.KeyHash, &expires, &k.CreatedAt)
	k.ExpiresAt = nullTimePtr(expires)
	return k, err
}

func (r *APIKeyRepo) Create(ctx context.Context, k *domain.APIKey) (*domain.APIKey, error) {
	out := *k
	if out.ID == "" {
		out.ID = domain.NewID()
	}
	out.CreatedAt = now()
	_, err := r.pool.Write.ExecContext(ctx,
		`INSERT INTO api_keys (`+apiKeyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.OwnerID, out.Name, out.KeyPrefix, out.KeyHash, timePtrArg(out.ExpiresAt), out.CreatedAt)
	if err != nil {
		return nil, mapDBError(err, "API key")
	}
	return &out, nil
}

func (r *APIKeyRepo) GetByID(ctx context.Context, id string) (*domain.APIKey, error) {
	k, err := scanAPIKey(r.pool.Read.QueryRowContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE id = ?`, id))
	if err != nil {
		return nil, mapDBError(err, "API key")
	}
	return &k, nil
}

// GetByHash returns the key whose SHA-256 hash matches.
func (r *APIKeyRepo) GetByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	k, err := scanAPIKey(r.pool.Read.QueryRowContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE key_hash = ?`, keyHash))
	if err != nil {
		return nil, mapDBError(err, "API key")
	}
	return &k, nil
}

func (r *APIKeyRepo) List(ctx context.Context, scope domain.Scope, page domain.PageRequest) ([]domain.APIKey, int64, error) {
	where, args := scopeClause(scope, "owner_id")
	return listPage(ctx, r.pool.Read,
		`SELECT COUNT(*) FROM api_keys`+where,
		`SELECT `+apiKeyColumns+` FROM api_keys`+where+` ORDER BY id DESC LIMIT ? OFFSET ?`,
		args, page, scanAPIKey)
}

func (r *APIKeyRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool.Write, "api_keys", id, "API key")
}

// DeleteExpired removes keys whose expiry is at or before now and returns
// how many were removed.
func (r *APIKeyRepo) DeleteExpired(ctx context.Context, at time.Time) (int64, error) {
	res, err := r.pool.Write.ExecContext(ctx,
		`DELETE FROM api_keys WHERE expires_at IS NOT NULL AND expires_at <= ?`, at.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
