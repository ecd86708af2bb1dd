package repository

import (
	"context"

	internaldb "icare/internal/db"
	"icare/internal/domain"
)

const libraryColumns = `id, title, description, author, image, resource_file, date_published, created_at, updated_at`

// LibraryRepo stores digital-library resources.
type LibraryRepo struct {
	pool *internaldb.Pool
}

func NewLibraryRepo(pool *internaldb.Pool) *LibraryRepo {
	return &LibraryRepo{pool: pool}
}

func scanLibrary(s scanner) (domain.LibraryResource, error) {
	var l domain.LibraryResource
	err := s.Scan(&l.ID, &l.Title, &l.Description, &l.Author, &l.Image, &l.ResourceFile,
		&l.DatePublished, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r *LibraryRepo) Create(ctx context.Context, l *domain.LibraryResource) (*domain.LibraryResource, error) {
	out := *l
	out.ID = domain.NewID()
	out.CreatedAt = now()
	out.UpdatedAt = out.CreatedAt
	out.DatePublished = out.DatePublished.UTC()
	_, err := r.pool.Write.ExecContext(ctx,
		`INSERT INTO library_resources (`+libraryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.Title, out.Description, out.Author, out.Image, out.ResourceFile,
		out.DatePublished, out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err, "Library Resource")
	}
	return &out, nil
}

func (r *LibraryRepo) GetByID(ctx context.Context, id string) (*domain.LibraryResource, error) {
	l, err := scanLibrary(r.pool.Read.QueryRowContext(ctx,
		`SELECT `+libraryColumns+` FROM library_resources WHERE id = ?`, id))
	if err != nil {
		return nil, mapDBError(err, "Library Resource")
	}
	return &l, nil
}

func (r *LibraryRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.LibraryResource, int64, error) {
	return listPage(ctx, r.pool.Read,
		`SELECT COUNT(*) FROM library_resources`,
		`SELECT `+libraryColumns+` FROM library_resources ORDER BY date_published DESC, id LIMIT ? OFFSET ?`,
		nil, page, scanLibrary)
}

func (r *LibraryRepo) Update(ctx context.Context, l *domain.LibraryResource) (*domain.LibraryResource, error) {
	out := *l
	out.UpdatedAt = now()
	res, err := r.pool.Write.ExecContext(ctx,
		`UPDATE library_resources SET title = ?, description = ?, author = ?, image = ?,
		 resource_file = ?, date_published = ?, updated_at = ? WHERE id = ?`,
		out.Title, out.Description, out.Author, out.Image, out.ResourceFile,
		out.DatePublished.UTC(), out.UpdatedAt, out.ID)
	if err != nil {
		return nil, mapDBError(err, "Library Resource")
	}
	if err := checkUpdated(res, "Library Resource"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LibraryRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool.Write, "library_resources", id, "Library Resource")
}
