// Package support implements the help-desk ticket service.
package support

import (
	"context"

	"icare/internal/access"
	"icare/internal/domain"
	"icare/internal/service/auditutil"
)

// TicketService manages support tickets and their response threads.
type TicketService struct {
	repo  domain.TicketRepository
	audit domain.AuditRepository
	guard *access.Guard
}

// NewTicketService creates a TicketService.
func NewTicketService(repo domain.TicketRepository, audit domain.AuditRepository, guard *access.Guard) *TicketService {
	return &TicketService{repo: repo, audit: audit, guard: guard}
}

// Create raises a ticket for the caller. New tickets are Open.
func (s *TicketService) Create(ctx context.Context, in domain.TicketInput) (*domain.Ticket, error) {
	owner, err := s.guard.AuthorizeCreate(ctx, access.Ticket)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t, err := s.repo.Create(ctx, &domain.Ticket{
		OwnerID:     owner,
		Subject:     in.Subject,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      domain.TicketOpen,
	})
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpCreate), access.Ticket.Name, t.ID, "priority="+t.Priority)
	return t, nil
}

func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	return access.Load(ctx, s.guard, access.Ticket, access.OpRead, id, s.repo.GetByID)
}

func (s *TicketService) List(ctx context.Context, mine bool, page domain.PageRequest) ([]domain.Ticket, int64, error) {
	scope, err := s.guard.Scope(ctx, access.Ticket, mine)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, scope, page)
}

// Update changes subject, priority or status. Administrators only.
func (s *TicketService) Update(ctx context.Context, id string, upd domain.TicketUpdate) (*domain.Ticket, error) {
	t, err := access.Load(ctx, s.guard, access.Ticket, access.OpUpdate, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	if err := upd.Apply(t); err != nil {
		return nil, err
	}
	out, err := s.repo.Update(ctx, t)
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpUpdate), access.Ticket.Name, id, "status="+out.Status)
	return out, nil
}

func (s *TicketService) Delete(ctx context.Context, id string) error {
	if _, err := access.Load(ctx, s.guard, access.Ticket, access.OpDelete, id, s.repo.GetByID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpDelete), access.Ticket.Name, id, "")
	return nil
}

// Respond appends a message to the thread. Anyone who may read the ticket
// may respond; the responder is recorded by name. The updated ticket is
// returned.
func (s *TicketService) Respond(ctx context.Context, id, message string) (*domain.Ticket, error) {
	if _, err := access.Load(ctx, s.guard, access.Ticket, access.OpRespond, id, s.repo.GetByID); err != nil {
		return nil, err
	}
	msg, err := domain.ValidateResponseMessage(message)
	if err != nil {
		return nil, err
	}
	p, _ := domain.PrincipalFromContext(ctx)
	if _, err := s.repo.AddResponse(ctx, &domain.TicketResponse{TicketID: id, Responder: p.Name, Message: msg}); err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpRespond), access.Ticket.Name, id, "")
	return s.repo.GetByID(ctx, id)
}
