package store

import (
	"context"

	"icare/internal/access"
	"icare/internal/domain"
	"icare/internal/service/auditutil"
)

// CardService manages saved payment cards. Number and CVV are sealed by the
// repository and are only decrypted on a single-card read.
type CardService struct {
	repo  domain.CardRepository
	audit domain.AuditRepository
	guard *access.Guard
}

// NewCardService creates a CardService.
func NewCardService(repo domain.CardRepository, audit domain.AuditRepository, guard *access.Guard) *CardService {
	return &CardService{repo: repo, audit: audit, guard: guard}
}

func (s *CardService) Create(ctx context.Context, in domain.CardInput) (*domain.Card, error) {
	owner, err := s.guard.AuthorizeCreate(ctx, access.Card)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c, err := s.repo.Create(ctx, &domain.Card{
		OwnerID:    owner,
		HolderName: in.HolderName,
		Number:     in.Number,
		Expiry:     in.Expiry,
		CVV:        in.CVV,
		CardType:   in.CardType,
	})
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpCreate), access.Card.Name, c.ID, "last4="+c.Last4)
	return c, nil
}

func (s *CardService) Get(ctx context.Context, id string) (*domain.Card, error) {
	return access.Load(ctx, s.guard, access.Card, access.OpRead, id, s.repo.GetByID)
}

func (s *CardService) List(ctx context.Context, mine bool, page domain.PageRequest) ([]domain.Card, int64, error) {
	scope, err := s.guard.Scope(ctx, access.Card, mine)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, scope, page)
}

func (s *CardService) Update(ctx context.Context, id string, upd domain.CardUpdate) (*domain.Card, error) {
	c, err := access.Load(ctx, s.guard, access.Card, access.OpUpdate, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	if err := upd.Apply(c); err != nil {
		return nil, err
	}
	out, err := s.repo.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpUpdate), access.Card.Name, id, "last4="+out.Last4)
	return out, nil
}

func (s *CardService) Delete(ctx context.Context, id string) error {
	if _, err := access.Load(ctx, s.guard, access.Card, access.OpDelete, id, s.repo.GetByID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpDelete), access.Card.Name, id, "")
	return nil
}
