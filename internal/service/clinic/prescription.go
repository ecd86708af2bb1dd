package clinic

import (
	"context"

	"icare/internal/access"
	"icare/internal/domain"
	"icare/internal/service/auditutil"
)

// PrescriptionService records prescriptions.
type PrescriptionService struct {
	repo         domain.PrescriptionRepository
	optometrists *OptometristService
	audit        domain.AuditRepository
	guard        *access.Guard
}

// NewPrescriptionService creates a PrescriptionService.
func NewPrescriptionService(repo domain.PrescriptionRepository, optometrists *OptometristService,
	audit domain.AuditRepository, guard *access.Guard) *PrescriptionService {
	return &PrescriptionService{repo: repo, optometrists: optometrists, audit: audit, guard: guard}
}

func (s *PrescriptionService) Create(ctx context.Context, in domain.PrescriptionInput) (*domain.Prescription, error) {
	owner, err := s.guard.AuthorizeCreate(ctx, access.Prescription)
	if err != nil {
		return nil, err
	}
	issued, err := in.Validate()
	if err != nil {
		return nil, err
	}
	if err := s.guard.Reference(ctx, access.Optometrist, in.OptometristID, s.optometrists.Exists); err != nil {
		return nil, err
	}
	p, err := s.repo.Create(ctx, &domain.Prescription{
		OwnerID:       owner,
		PatientName:   in.PatientName,
		OptometristID: in.OptometristID,
		Details:       in.Details,
		DateIssued:    issued,
	})
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpCreate), access.Prescription.Name, p.ID, "")
	return p, nil
}

func (s *PrescriptionService) Get(ctx context.Context, id string) (*domain.Prescription, error) {
	return access.Load(ctx, s.guard, access.Prescription, access.OpRead, id, s.repo.GetByID)
}

func (s *PrescriptionService) List(ctx context.Context, mine bool, page domain.PageRequest) ([]domain.Prescription, int64, error) {
	scope, err := s.guard.Scope(ctx, access.Prescription, mine)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, scope, page)
}

func (s *PrescriptionService) Update(ctx context.Context, id string, upd domain.PrescriptionUpdate) (*domain.Prescription, error) {
	p, err := access.Load(ctx, s.guard, access.Prescription, access.OpUpdate, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	before := p.OptometristID
	if err := upd.Apply(p); err != nil {
		return nil, err
	}
	if p.OptometristID != before {
		if err := s.guard.Reference(ctx, access.Optometrist, p.OptometristID, s.optometrists.Exists); err != nil {
			return nil, err
		}
	}
	out, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpUpdate), access.Prescription.Name, id, "")
	return out, nil
}

func (s *PrescriptionService) Delete(ctx context.Context, id string) error {
	if _, err := access.Load(ctx, s.guard, access.Prescription, access.OpDelete, id, s.repo.GetByID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpDelete), access.Prescription.Name, id, "")
	return nil
}
