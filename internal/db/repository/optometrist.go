package repository

import (
	"context"

	internaldb "icare/internal/db"
	"icare/internal/domain"
)

const optometristColumns = `id, name, specialty, contact, created_at, updated_at`

// OptometristRepo stores practitioner records.
type OptometristRepo struct {
	pool *internaldb.Pool
}

func NewOptometristRepo(pool *internaldb.Pool) *OptometristRepo {
	return &OptometristRepo{pool: pool}
}

func scanOptometrist(s scanner) (domain.Optometrist, error) {
	var o domain.Optometrist
	err := s.Scan(&o.ID, &o.Name, &o.Specialty, &o.Contact, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *OptometristRepo) Create(ctx context.Context, o *domain.Optometrist) (*domain.Optometrist, error) {
	out := *o
	out.ID = domain.NewID()
	out.CreatedAt = now()
	out.UpdatedAt = out.CreatedAt
	_, err := r.pool.Write.ExecContext(ctx,
		`INSERT INTO optometrists (`+optometristColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		out.ID, out.Name, out.Specialty, out.Contact, out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err, "Optometrist")
	}
	return &out, nil
}

func (r *OptometristRepo) GetByID(ctx context.Context, id string) (*domain.Optometrist, error) {
	o, err := scanOptometrist(r.pool.Read.QueryRowContext(ctx,
		`SELECT `+optometristColumns+` FROM optometrists WHERE id = ?`, id))
	if err != nil {
		return nil, mapDBError(err, "Optometrist")
	}
	return &o, nil
}

func (r *OptometristRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Optometrist, int64, error) {
	return listPage(ctx, r.pool.Read,
		`SELECT COUNT(*) FROM optometrists`,
		`SELECT `+optometristColumns+` FROM optometrists ORDER BY name, id LIMIT ? OFFSET ?`,
		nil, page, scanOptometrist)
}

func (r *OptometristRepo) Update(ctx context.Context, o *domain.Optometrist) (*domain.Optometrist, error) {
	out := *o
	out.UpdatedAt = now()
	res, err := r.pool.Write.ExecContext(ctx,
		`UPDATE optometrists SET name = ?, specialty = ?, contact = ?, updated_at = ? WHERE id = ?`,
		out.Name, out.Specialty, out.Contact, out.UpdatedAt, out.ID)
	if err != nil {
		return nil, mapDBError(err, "Optometrist")
	}
	if err := checkUpdated(res, "Optometrist"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *OptometristRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool.Write, "optometrists", id, "Optometrist")
}
