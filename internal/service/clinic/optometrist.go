// Package clinic implements the eye-care clinic services: optometrists,
// appointments, prescriptions and the digital library.
package clinic

import (
	"context"

	"icare/internal/access"
	"icare/internal/domain"
	"icare/internal/service/auditutil"
)

// OptometristService manages the practitioner directory.
type OptometristService struct {
	repo  domain.OptometristRepository
	audit domain.AuditRepository
	guard *access.Guard
}

// NewOptometristService creates an OptometristService.
func NewOptometristService(repo domain.OptometristRepository, audit domain.AuditRepository, guard *access.Guard) *OptometristService {
	return &OptometristService{repo: repo, audit: audit, guard: guard}
}

func (s *OptometristService) Create(ctx context.Context, in domain.OptometristInput) (*domain.Optometrist, error) {
	if _, err := s.guard.AuthorizeCreate(ctx, access.Optometrist); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	o, err := s.repo.Create(ctx, &domain.Optometrist{Name: in.Name, Specialty: in.Specialty, Contact: in.Contact})
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpCreate), access.Optometrist.Name, o.ID, "")
	return o, nil
}

func (s *OptometristService) Get(ctx context.Context, id string) (*domain.Optometrist, error) {
	return access.Load(ctx, s.guard, access.Optometrist, access.OpRead, id, s.repo.GetByID)
}

func (s *OptometristService) List(ctx context.Context, page domain.PageRequest) ([]domain.Optometrist, int64, error) {
	if _, err := s.guard.Scope(ctx, access.Optometrist, false); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, page)
}

func (s *OptometristService) Update(ctx context.Context, id string, upd domain.OptometristUpdate) (*domain.Optometrist, error) {
	o, err := access.Load(ctx, s.guard, access.Optometrist, access.OpUpdate, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	if err := upd.Apply(o); err != nil {
		return nil, err
	}
	out, err := s.repo.Update(ctx, o)
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpUpdate), access.Optometrist.Name, id, "")
	return out, nil
}

func (s *OptometristService) Delete(ctx context.Context, id string) error {
	if _, err := access.Load(ctx, s.guard, access.Optometrist, access.OpDelete, id, s.repo.GetByID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpDelete), access.Optometrist.Name, id, "")
	return nil
}

// Exists reports a NotFoundError when no optometrist has id. It is the
// existence check for records that reference an optometrist.
func (s *OptometristService) Exists(ctx context.Context, id string) error {
	_, err := s.repo.GetByID(ctx, id)
	return err
}
