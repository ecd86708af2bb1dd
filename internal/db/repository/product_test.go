package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "icare/internal/db"
	"icare/internal/domain"
)

func createProduct(t *testing.T, pool *internaldb.Pool, slug string, price float64) *domain.Product {
	t.Helper()
	p, err := NewProductRepo(pool).Create(context.Background(), &domain.Product{
		Name: slug, Slug: slug, Image: "/img/" + slug + ".jpg", Brand: "Lumen", Category: "Frames",
		Description: "d", Price: price, CountInStock: 5,
	})
	require.NoError(t, err)
	return p
}

func TestProductRepo_SlugAndConflict(t *testing.T) {
	pool := internaldb.OpenTestSQLite(t)
	repo := NewProductRepo(pool)
	ctx := context.Background()

	p := createProduct(t, pool, "round-frames", 89.99)

	got, err := repo.GetBySlug(ctx, "round-frames")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Empty(t, got.Reviews)

	_, err = repo.Create(ctx, &domain.Product{Name: "dup", Slug: "round-frames", Image: "i", Brand: "b", Category: "c", Description: "d"})
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)

	p.Price = 79.5
	got, err = repo.Update(ctx, p)
	require.NoError(t, err)
	assert.InDelta(t, 79.5, got.Price, 0.001)
}

func TestProductRepo_AddReview(t *testing.T) {
	pool := internaldb.OpenTestSQLite(t)
	repo := NewProductRepo(pool)
	ctx := context.Background()
	p := createProduct(t, pool, "blue-light", 40)
	u1 := createUser(t, pool, "r1", false)
	u2 := createUser(t, pool, "r2", false)

	_, err := repo.AddReview(ctx, &domain.Review{ProductID: p.ID, OwnerID: u1.ID, Name: "r1", Rating: 5, Comment: "great"})
	require.NoError(t, err)
	got, err := repo.AddReview(ctx, &domain.Review{ProductID: p.ID, OwnerID: u2.ID, Name: "r2", Rating: 2, Comment: "meh"})
	require.NoError(t, err)

	assert.Equal(t, 2, got.NumReviews)
	assert.InDelta(t, 3.5, got.Rating, 0.001)
	assert.Len(t, got.Reviews, 2)

	_, err = repo.AddReview(ctx, &domain.Review{ProductID: p.ID, OwnerID: u1.ID, Name: "r1", Rating: 1, Comment: "again"})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Product already reviewed", conflict.Message)

	require.NoError(t, repo.Delete(ctx, p.ID))
	var n int
	require.NoError(t, pool.Read.QueryRow(`SELECT COUNT(*) FROM product_reviews`).Scan(&n))
	assert.Zero(t, n)
}
