// Package store implements the storefront services: the product catalogue,
// orders and saved cards.
package store

import (
	"context"
	"errors"
	"strings"

	"icare/internal/access"
	"icare/internal/domain"
	"icare/internal/service/auditutil"
)

// ProductService manages the catalogue and product reviews.
type ProductService struct {
	repo  domain.ProductRepository
	audit domain.AuditRepository
	guard *access.Guard
}

// NewProductService creates a ProductService.
func NewProductService(repo domain.ProductRepository, audit domain.AuditRepository, guard *access.Guard) *ProductService {
	return &ProductService{repo: repo, audit: audit, guard: guard}
}

func (s *ProductService) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if _, err := s.guard.AuthorizeCreate(ctx, access.Product); err != nil {
		return nil, err
	}
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.Create(ctx, &domain.Product{
		Name:         in.Name,
		Slug:         in.Slug,
		Image:        in.Image,
		Brand:        in.Brand,
		Category:     in.Category,
		Description:  in.Description,
		Price:        in.Price,
		CountInStock: in.CountInStock,
	})
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpCreate), access.Product.Name, p.ID, "slug="+p.Slug)
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return access.Load(ctx, s.guard, access.Product, access.OpRead, id, s.repo.GetByID)
}

// GetBySlug looks a product up by its URL slug.
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if err := s.guard.Check(ctx, access.Product, access.OpRead); err != nil {
		return nil, err
	}
	p, err := s.repo.GetBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, domain.ErrNotFound("%s", access.Product.NotFoundMessage())
		}
		return nil, err
	}
	if err := s.guard.Authorize(ctx, access.Product, access.OpRead, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context, page domain.PageRequest) ([]domain.Product, int64, error) {
	if _, err := s.guard.Scope(ctx, access.Product, false); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, page)
}

func (s *ProductService) Update(ctx context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error) {
	p, err := access.Load(ctx, s.guard, access.Product, access.OpUpdate, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	if upd.Slug != nil {
		slug := strings.ToLower(*upd.Slug)
		upd.Slug = &slug
	}
	if err := upd.Apply(p); err != nil {
		return nil, err
	}
	out, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpUpdate), access.Product.Name, id, "")
	return out, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := access.Load(ctx, s.guard, access.Product, access.OpDelete, id, s.repo.GetByID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpDelete), access.Product.Name, id, "")
	return nil
}

// AddReview records the caller's review and returns the product with its
// recomputed rating. Each user may review a product once.
func (s *ProductService) AddReview(ctx context.Context, id string, in domain.ReviewInput) (*domain.Product, error) {
	if _, err := access.Load(ctx, s.guard, access.Product, access.OpReview, id, s.repo.GetByID); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, _ := domain.PrincipalFromContext(ctx)
	out, err := s.repo.AddReview(ctx, &domain.Review{
		ProductID: id,
		OwnerID:   p.ID,
		Name:      p.Name,
		Rating:    in.Rating,
		Comment:   in.Comment,
	})
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpReview), access.Product.Name, id, "")
	return out, nil
}
