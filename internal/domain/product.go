package domain

import (
	"math"
	"regexp"
	"strings"
	"time"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Product is a catalogue entry. Products are publicly readable reference
// data with no per-user owner.
type Product struct {
	ID           string
	Name         string
	Slug         string
	Image        string
	Brand        string
	Category     string
	Description  string
	Price        float64
	CountInStock int
	Rating       float64
	NumReviews   int
	Reviews      []Review
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p *Product) ResourceID() string    { return p.ID }
func (p *Product) ResourceOwner() string { return "" }

// Review is a customer rating of a product, at most one per user and product.
type Review struct {
	ID        string
	ProductID string
	OwnerID   string
	Name      string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// ProductInput holds fields for creating a product.
type ProductInput struct {
	Name         string
	Slug         string
	Image        string
	Brand        string
	Category     string
	Description  string
	Price        float64
	CountInStock int
}

// Validate checks the request.
func (r *ProductInput) Validate() error {
	if err := requireAll("name", r.Name, "slug", r.Slug, "image", r.Image, "brand", r.Brand,
		"category", r.Category, "description", r.Description); err != nil {
		return err
	}
	return validateProductNumbers(r.Slug, r.Price, r.CountInStock)
}

// ProductUpdate is a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	Name         *string
	Slug         *string
	Image        *string
	Brand        *string
	Category     *string
	Description  *string
	Price        *float64
	CountInStock *int
}

// Apply applies non-nil fields to p and re-validates the result.
func (r *ProductUpdate) Apply(p *Product) error {
	setString(&p.Name, r.Name)
	setString(&p.Slug, r.Slug)
	setString(&p.Image, r.Image)
	setString(&p.Brand, r.Brand)
	setString(&p.Category, r.Category)
	setString(&p.Description, r.Description)
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.CountInStock != nil {
		p.CountInStock = *r.CountInStock
	}
	if err := requireAll("name", p.Name, "slug", p.Slug, "image", p.Image, "brand", p.Brand,
		"category", p.Category, "description", p.Description); err != nil {
		return err
	}
	return validateProductNumbers(p.Slug, p.Price, p.CountInStock)
}

// ReviewInput holds fields for reviewing a product.
type ReviewInput struct {
	Rating  int
	Comment string
}

// Validate checks the request.
func (r *ReviewInput) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrValidation("rating must be between 1 and 5")
	}
	r.Comment = strings.TrimSpace(r.Comment)
	return required("comment", r.Comment)
}

// RecomputeRating updates Rating and NumReviews from Reviews.
func (p *Product) RecomputeRating() {
	p.NumReviews = len(p.Reviews)
	if p.NumReviews == 0 {
		p.Rating = 0
		return
	}
	sum := 0
	for _, rv := range p.Reviews {
		sum += rv.Rating
	}
	p.Rating = Round2(float64(sum) / float64(p.NumReviews))
}

func validateProductNumbers(slug string, price float64, stock int) error {
	if !slugPattern.MatchString(slug) {
		return ErrValidation("slug must be lowercase words separated by dashes")
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return ErrValidation("price must be a non-negative number")
	}
	if stock < 0 {
		return ErrValidation("count_in_stock must not be negative")
	}
	return nil
}

// Round2 rounds a monetary amount to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
