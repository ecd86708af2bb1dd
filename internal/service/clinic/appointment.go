package clinic

import (
	"context"

	"icare/internal/access"
	"icare/internal/domain"
	"icare/internal/service/auditutil"
)

// AppointmentService books and manages appointments. Bookings belong to the
// user who made them; only administrators reschedule or change status.
type AppointmentService struct {
	repo         domain.AppointmentRepository
	optometrists *OptometristService
	audit        domain.AuditRepository
	guard        *access.Guard
}

// NewAppointmentService creates an AppointmentService.
func NewAppointmentService(repo domain.AppointmentRepository, optometrists *OptometristService,
	audit domain.AuditRepository, guard *access.Guard) *AppointmentService {
	return &AppointmentService{repo: repo, optometrists: optometrists, audit: audit, guard: guard}
}

// Create books an appointment for the caller. It starts Pending.
func (s *AppointmentService) Create(ctx context.Context, in domain.AppointmentInput) (*domain.Appointment, error) {
	owner, err := s.guard.AuthorizeCreate(ctx, access.Appointment)
	if err != nil {
		return nil, err
	}
	date, err := in.Validate()
	if err != nil {
		return nil, err
	}
	if err := s.guard.Reference(ctx, access.Optometrist, in.OptometristID, s.optometrists.Exists); err != nil {
		return nil, err
	}
	a, err := s.repo.Create(ctx, &domain.Appointment{
		OwnerID:       owner,
		PatientName:   in.PatientName,
		OptometristID: in.OptometristID,
		Date:          date,
		TimeSlot:      in.TimeSlot,
		Subject:       in.Subject,
		Status:        domain.AppointmentPending,
	})
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpCreate), access.Appointment.Name, a.ID, "")
	return a, nil
}

func (s *AppointmentService) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	return access.Load(ctx, s.guard, access.Appointment, access.OpRead, id, s.repo.GetByID)
}

// List returns the appointments the caller may see; mine limits it to the
// caller's own bookings.
func (s *AppointmentService) List(ctx context.Context, mine bool, page domain.PageRequest) ([]domain.Appointment, int64, error) {
	scope, err := s.guard.Scope(ctx, access.Appointment, mine)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, scope, page)
}

func (s *AppointmentService) Update(ctx context.Context, id string, upd domain.AppointmentUpdate) (*domain.Appointment, error) {
	a, err := access.Load(ctx, s.guard, access.Appointment, access.OpUpdate, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	before := a.OptometristID
	if err := upd.Apply(a); err != nil {
		return nil, err
	}
	if a.OptometristID != before {
		if err := s.guard.Reference(ctx, access.Optometrist, a.OptometristID, s.optometrists.Exists); err != nil {
			return nil, err
		}
	}
	out, err := s.repo.Update(ctx, a)
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpUpdate), access.Appointment.Name, id, "status="+out.Status)
	return out, nil
}

func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	if _, err := access.Load(ctx, s.guard, access.Appointment, access.OpDelete, id, s.repo.GetByID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpDelete), access.Appointment.Name, id, "")
	return nil
}
