// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"sync"
	"time"

	"icare/internal/domain"
)

// === Audit Repository Mock ===

// MockAuditRepo implements domain.AuditRepository for testing.
type MockAuditRepo struct {
	InsertFn func(ctx context.Context, e *domain.AuditEntry) error
	ListFn   func(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error)

	mu      sync.Mutex
	Entries []*domain.AuditEntry // collected entries for assertions
}

// Insert implements the interface method for testing.
func (m *MockAuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(ctx, e); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, e)
	return nil
}

// List implements the interface method for testing.
func (m *MockAuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	panic("unexpected call to MockAuditRepo.List")
}

// LastEntry returns the last collected audit entry, or nil if none.
func (m *MockAuditRepo) LastEntry() *domain.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Entries) == 0 {
		return nil
	}
	return m.Entries[len(m.Entries)-1]
}

// HasAction returns true if any collected entry has the given action and
// status.
func (m *MockAuditRepo) HasAction(action, status string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.Action == action && e.Status == status {
			return true
		}
	}
	return false
}

var _ domain.AuditRepository = (*MockAuditRepo)(nil)

// === User Repository Mock ===

// MockUserRepo implements domain.UserRepository for testing. Calls counts
// every method invocation so tests can assert that no lookup happened.
type MockUserRepo struct {
	CreateFn          func(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByIDFn         func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFn      func(ctx context.Context, email string) (*domain.User, error)
	GetByExternalIDFn func(ctx context.Context, issuer, externalID string) (*domain.User, error)
	ListFn            func(ctx context.Context, scope domain.Scope, page domain.PageRequest) ([]domain.User, int64, error)
	UpdateFn          func(ctx context.Context, u *domain.User) (*domain.User, error)
	DeleteFn          func(ctx context.Context, id string) error
	CountFn           func(ctx context.Context) (int64, error)

	mu    sync.Mutex
	Calls int
}

func (m *MockUserRepo) called() {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
}

// Create implements the interface method for testing.
func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	m.called()
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	panic("unexpected call to MockUserRepo.Create")
}

// GetByID implements the interface method for testing.
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.called()
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	panic("unexpected call to MockUserRepo.GetByID")
}

// GetByEmail implements the interface method for testing.
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.called()
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	panic("unexpected call to MockUserRepo.GetByEmail")
}

// GetByExternalID implements the interface method for testing.
func (m *MockUserRepo) GetByExternalID(ctx context.Context, issuer, externalID string) (*domain.User, error) {
	m.called()
	if m.GetByExternalIDFn != nil {
		return m.GetByExternalIDFn(ctx, issuer, externalID)
	}
	panic("unexpected call to MockUserRepo.GetByExternalID")
}

// List implements the interface method for testing.
func (m *MockUserRepo) List(ctx context.Context, scope domain.Scope, page domain.PageRequest) ([]domain.User, int64, error) {
	m.called()
	if m.ListFn != nil {
		return m.ListFn(ctx, scope, page)
	}
	panic("unexpected call to MockUserRepo.List")
}

// Update implements the interface method for testing.
func (m *MockUserRepo) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	m.called()
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, u)
	}
	panic("unexpected call to MockUserRepo.Update")
}

// Delete implements the interface method for testing.
func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	m.called()
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	panic("unexpected call to MockUserRepo.Delete")
}

// Count implements the interface method for testing.
func (m *MockUserRepo) Count(ctx context.Context) (int64, error) {
	m.called()
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	panic("unexpected call to MockUserRepo.Count")
}

var _ domain.UserRepository = (*MockUserRepo)(nil)

// === API Key Repository Mock ===

// MockAPIKeyRepo implements domain.APIKeyRepository for testing.
type MockAPIKeyRepo struct {
	CreateFn        func(ctx context.Context, k *domain.APIKey) (*domain.APIKey, error)
	GetByIDFn       func(ctx context.Context, id string) (*domain.APIKey, error)
	GetByHashFn     func(ctx context.Context, keyHash string) (*domain.APIKey, error)
	ListFn          func(ctx context.Context, scope domain.Scope, page domain.PageRequest) ([]domain.APIKey, int64, error)
	DeleteFn        func(ctx context.Context, id string) error
	DeleteExpiredFn func(ctx context.Context, now time.Time) (int64, error)
}

// Create implements the interface method for testing.
func (m *MockAPIKeyRepo) Create(ctx context.Context, k *domain.APIKey) (*domain.APIKey, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, k)
	}
	panic("unexpected call to MockAPIKeyRepo.Create")
}

// GetByID implements the interface method for testing.
func (m *MockAPIKeyRepo) GetByID(ctx context.Context, id string) (*domain.APIKey, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	panic("unexpected call to MockAPIKeyRepo.GetByID")
}

// GetByHash implements the interface method for testing.
func (m *MockAPIKeyRepo) GetByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	if m.GetByHashFn != nil {
		return m.GetByHashFn(ctx, keyHash)
	}
	panic("unexpected call to MockAPIKeyRepo.GetByHash")
}

// List implements the interface method for testing.
func (m *MockAPIKeyRepo) List(ctx context.Context, scope domain.Scope, page domain.PageRequest) ([]domain.APIKey, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, scope, page)
	}
	panic("unexpected call to MockAPIKeyRepo.List")
}

// Delete implements the interface method for testing.
func (m *MockAPIKeyRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	panic("unexpected call to MockAPIKeyRepo.Delete")
}

// DeleteExpired implements the interface method for testing.
func (m *MockAPIKeyRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.DeleteExpiredFn != nil {
		return m.DeleteExpiredFn(ctx, now)
	}
	panic("unexpected call to MockAPIKeyRepo.DeleteExpired")
}

var _ domain.APIKeyRepository = (*MockAPIKeyRepo)(nil)
