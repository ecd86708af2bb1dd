package domain

import (
	"context"
	"time"
)

// UserRepository provides CRUD operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByExternalID(ctx context.Context, issuer, externalID string) (*User, error)
	List(ctx context.Context, scope Scope, page PageRequest) ([]User, int64, error)
	Update(ctx context.Context, u *User) (*User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// APIKeyRepository provides storage for API keys.
type APIKeyRepository interface {
	Create(ctx context.Context, k *APIKey) (*APIKey, error)
	GetByID(ctx context.Context, id string) (*APIKey, error)
	GetByHash(ctx context.Context, keyHash string) (*APIKey, error)
	List(ctx context.Context, scope Scope, page PageRequest) ([]APIKey, int64, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// AuditRepository provides append and query access to the audit log.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]AuditEntry, int64, error)
}

// OptometristRepository provides CRUD operations for optometrists.
type OptometristRepository interface {
	Create(ctx context.Context, o *Optometrist) (*Optometrist, error)
	GetByID(ctx context.Context, id string) (*Optometrist, error)
	List(ctx context.Context, page PageRequest) ([]Optometrist, int64, error)
	Update(ctx context.Context, o *Optometrist) (*Optometrist, error)
	Delete(ctx context.Context, id string) error
}

// AppointmentRepository provides CRUD operations for appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, scope Scope, page PageRequest) ([]Appointment, int64, error)
	Update(ctx context.Context, a *Appointment) (*Appointment, error)
	Delete(ctx context.Context, id string) error
}

// PrescriptionRepository provides CRUD operations for prescriptions.
type PrescriptionRepository interface {
	Create(ctx context.Context, p *Prescription) (*Prescription, error)
	GetByID(ctx context.Context, id string) (*Prescription, error)
	List(ctx context.Context, scope Scope, page PageRequest) ([]Prescription, int64, error)
	Update(ctx context.Context, p *Prescription) (*Prescription, error)
	Delete(ctx context.Context, id string) error
}

// LibraryRepository provides CRUD operations for digital-library resources.
type LibraryRepository interface {
	Create(ctx context.Context, l *LibraryResource) (*LibraryResource, error)
	GetByID(ctx context.Context, id string) (*LibraryResource, error)
	List(ctx context.Context, page PageRequest) ([]LibraryResource, int64, error)
	Update(ctx context.Context, l *LibraryResource) (*LibraryResource, error)
	Delete(ctx context.Context, id string) error
}

// TicketRepository provides CRUD operations for tickets and their responses.
type TicketRepository interface {
	Create(ctx context.Context, t *Ticket) (*Ticket, error)
	GetByID(ctx context.Context, id string) (*Ticket, error)
	List(ctx context.Context, scope Scope, page PageRequest) ([]Ticket, int64, error)
	Update(ctx context.Context, t *Ticket) (*Ticket, error)
	Delete(ctx context.Context, id string) error
	AddResponse(ctx context.Context, r *TicketResponse) (*TicketResponse, error)
}

// CardRepository provides CRUD operations for saved cards.
type CardRepository interface {
	Create(ctx context.Context, c *Card) (*Card, error)
	GetByID(ctx context.Context, id string) (*Card, error)
	List(ctx context.Context, scope Scope, page PageRequest) ([]Card, int64, error)
	Update(ctx context.Context, c *Card) (*Card, error)
	Delete(ctx context.Context, id string) error
}

// ProductRepository provides CRUD operations for products and reviews.
type ProductRepository interface {
	Create(ctx context.Context, p *Product) (*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, page PageRequest) ([]Product, int64, error)
	Update(ctx context.Context, p *Product) (*Product, error)
	Delete(ctx context.Context, id string) error
	AddReview(ctx context.Context, r *Review) (*Product, error)
}

// OrderRepository provides CRUD operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *Order) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, scope Scope, page PageRequest) ([]Order, int64, error)
	Update(ctx context.Context, o *Order) (*Order, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (*OrderSummary, error)
}
