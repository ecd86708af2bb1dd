package repository

import (
	"context"
	"database/sql"

	internaldb "icare/internal/db"
	"icare/internal/domain"
)

const productColumns = `id, name, slug, image, brand, category, description, price, count_in_stock,
	rating, num_reviews, created_at, updated_at`

// ProductRepo stores the product catalogue and customer reviews.
type ProductRepo struct {
	pool *internaldb.Pool
}

func NewProductRepo(pool *internaldb.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

func scanProduct(s scanner) (domain.Product, error) {
	var p domain.Product
	err := s.Scan(&p.ID, &p.Name, &p.Slug, &p.Image, &p.Brand, &p.Category, &p.Description,
		&p.Price, &p.CountInStock, &p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	out := *p
	out.ID = domain.NewID()
	out.CreatedAt = now()
	out.UpdatedAt = out.CreatedAt
	out.Rating, out.NumReviews, out.Reviews = 0, 0, []domain.Review{}
	_, err := r.pool.Write.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.Name, out.Slug, out.Image, out.Brand, out.Category, out.Description,
		out.Price, out.CountInStock, out.Rating, out.NumReviews, out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err, "Product")
	}
	return &out, nil
}

func (r *ProductRepo) getWhere(ctx context.Context, db *sql.DB, where string, arg any) (*domain.Product, error) {
	p, err := scanProduct(db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE `+where, arg))
	if err != nil {
		return nil, mapDBError(err, "Product")
	}
	if p.Reviews, err = r.reviews(ctx, db, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) reviews(ctx context.Context, db *sql.DB, productID string) ([]domain.Review, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, product_id, owner_id, name, rating, comment, created_at FROM product_reviews
		 WHERE product_id = ? ORDER BY id`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Review, 0)
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.OwnerID, &rv.Name, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getWhere(ctx, r.pool.Read, `id = ?`, id)
}

func (r *ProductRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.getWhere(ctx, r.pool.Read, `slug = ?`, slug)
}

// List returns products without their reviews.
func (r *ProductRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Product, int64, error) {
	return listPage(ctx, r.pool.Read,
		`SELECT COUNT(*) FROM products`,
		`SELECT `+productColumns+` FROM products ORDER BY name, id LIMIT ? OFFSET ?`,
		nil, page, scanProduct)
}

// Update saves the editable catalogue fields. Rating and review counts are
// maintained by AddReview only.
func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	res, err := r.pool.Write.ExecContext(ctx,
		`UPDATE products SET name = ?, slug = ?, image = ?, brand = ?, category = ?, description = ?,
		 price = ?, count_in_stock = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Slug, p.Image, p.Brand, p.Category, p.Description, p.Price, p.CountInStock, now(), p.ID)
	if err != nil {
		return nil, mapDBError(err, "Product")
	}
	if err := checkUpdated(res, "Product"); err != nil {
		return nil, err
	}
	return r.getWhere(ctx, r.pool.Write, `id = ?`, p.ID)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool.Write, "products", id, "Product")
}

// AddReview inserts a review and recomputes the product's rating in one
// transaction. A second review by the same user is a ConflictError.
func (r *ProductRepo) AddReview(ctx context.Context, rv *domain.Review) (*domain.Product, error) {
	tx, err := r.pool.Write.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	ts := now()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO product_reviews (id, product_id, owner_id, name, rating, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		domain.NewID(), rv.ProductID, rv.OwnerID, rv.Name, rv.Rating, rv.Comment, ts); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict("Product already reviewed")
		}
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE products SET
		   num_reviews = (SELECT COUNT(*) FROM product_reviews WHERE product_id = ?),
		   rating = COALESCE((SELECT ROUND(AVG(rating), 2) FROM product_reviews WHERE product_id = ?), 0),
		   updated_at = ?
		 WHERE id = ?`,
		rv.ProductID, rv.ProductID, ts, rv.ProductID)
	if err != nil {
		return nil, err
	}
	if err := checkUpdated(res, "Product"); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.getWhere(ctx, r.pool.Write, `id = ?`, rv.ProductID)
}
