package app

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"icare/internal/domain"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Users []struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Admin    bool   `yaml:"admin"`
	} `yaml:"users"`
	Optometrists []struct {
		Name      string `yaml:"name"`
		Specialty string `yaml:"specialty"`
		Contact   string `yaml:"contact"`
	} `yaml:"optometrists"`
	Library []struct {
		Title         string `yaml:"title"`
		Description   string `yaml:"description"`
		Author        string `yaml:"author"`
		Image         string `yaml:"image"`
		ResourceFile  string `yaml:"resource_file"`
		DatePublished string `yaml:"date_published"`
	} `yaml:"library"`
	Products []struct {
		Name         string  `yaml:"name"`
		Slug         string  `yaml:"slug"`
		Image        string  `yaml:"image"`
		Brand        string  `yaml:"brand"`
		Category     string  `yaml:"category"`
		Description  string  `yaml:"description"`
		Price        float64 `yaml:"price"`
		CountInStock int     `yaml:"count_in_stock"`
	} `yaml:"products"`
}

// Seed loads the demo accounts and reference data. It does nothing when any
// account already exists.
func (a *App) Seed(ctx context.Context) error {
	n, err := a.repos.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		a.logger.Info("seed skipped: datastore already has accounts")
		return nil
	}

	var data seedFile
	if err := yaml.Unmarshal(seedYAML, &data); err != nil {
		return fmt.Errorf("parse seed data: %w", err)
	}

	for _, u := range data.Users {
		if _, err := a.Services.Users.CreateAccount(ctx, domain.SignupRequest{
			Name: u.Name, Email: u.Email, Password: u.Password,
		}, u.Admin); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}

	for _, o := range data.Optometrists {
		in := domain.OptometristInput{Name: o.Name, Specialty: o.Specialty, Contact: o.Contact}
		if err := in.Validate(); err != nil {
			return fmt.Errorf("seed optometrist %s: %w", o.Name, err)
		}
		if _, err := a.repos.optometrists.Create(ctx, &domain.Optometrist{
			Name: in.Name, Specialty: in.Specialty, Contact: in.Contact,
		}); err != nil {
			return fmt.Errorf("seed optometrist %s: %w", o.Name, err)
		}
	}

	for _, l := range data.Library {
		in := domain.LibraryResourceInput{
			Title: l.Title, Description: l.Description, Author: l.Author,
			Image: l.Image, ResourceFile: l.ResourceFile, DatePublished: l.DatePublished,
		}
		published, err := in.Validate()
		if err != nil {
			return fmt.Errorf("seed library resource %s: %w", l.Title, err)
		}
		if _, err := a.repos.library.Create(ctx, &domain.LibraryResource{
			Title: in.Title, Description: in.Description, Author: in.Author,
			Image: in.Image, ResourceFile: in.ResourceFile, DatePublished: published,
		}); err != nil {
			return fmt.Errorf("seed library resource %s: %w", l.Title, err)
		}
	}

	for _, p := range data.Products {
		in := domain.ProductInput{
			Name: p.Name, Slug: p.Slug, Image: p.Image, Brand: p.Brand, Category: p.Category,
			Description: p.Description, Price: p.Price, CountInStock: p.CountInStock,
		}
		if err := in.Validate(); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Slug, err)
		}
		if _, err := a.repos.products.Create(ctx, &domain.Product{
			Name: in.Name, Slug: in.Slug, Image: in.Image, Brand: in.Brand, Category: in.Category,
			Description: in.Description, Price: in.Price, CountInStock: in.CountInStock,
		}); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Slug, err)
		}
	}

	a.logger.Info("demo data seeded",
		"users", len(data.Users),
		"optometrists", len(data.Optometrists),
		"library", len(data.Library),
		"products", len(data.Products))
	return nil
}

