package clinic

import (
	"context"

	"icare/internal/access"
	"icare/internal/domain"
	"icare/internal/service/auditutil"
)

// LibraryService manages the digital library. Any signed-in user may read
// it; administrators curate it.
type LibraryService struct {
	repo  domain.LibraryRepository
	audit domain.AuditRepository
	guard *access.Guard
}

// NewLibraryService creates a LibraryService.
func NewLibraryService(repo domain.LibraryRepository, audit domain.AuditRepository, guard *access.Guard) *LibraryService {
	return &LibraryService{repo: repo, audit: audit, guard: guard}
}

func (s *LibraryService) Create(ctx context.Context, in domain.LibraryResourceInput) (*domain.LibraryResource, error) {
	if _, err := s.guard.AuthorizeCreate(ctx, access.LibraryResource); err != nil {
		return nil, err
	}
	published, err := in.Validate()
	if err != nil {
		return nil, err
	}
	l, err := s.repo.Create(ctx, &domain.LibraryResource{
		Title:         in.Title,
		Description:   in.Description,
		Author:        in.Author,
		Image:         in.Image,
		ResourceFile:  in.ResourceFile,
		DatePublished: published,
	})
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpCreate), access.LibraryResource.Name, l.ID, "title="+l.Title)
	return l, nil
}

func (s *LibraryService) Get(ctx context.Context, id string) (*domain.LibraryResource, error) {
	return access.Load(ctx, s.guard, access.LibraryResource, access.OpRead, id, s.repo.GetByID)
}

func (s *LibraryService) List(ctx context.Context, page domain.PageRequest) ([]domain.LibraryResource, int64, error) {
	if _, err := s.guard.Scope(ctx, access.LibraryResource, false); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, page)
}

func (s *LibraryService) Update(ctx context.Context, id string, upd domain.LibraryResourceUpdate) (*domain.LibraryResource, error) {
	l, err := access.Load(ctx, s.guard, access.LibraryResource, access.OpUpdate, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	if err := upd.Apply(l); err != nil {
		return nil, err
	}
	out, err := s.repo.Update(ctx, l)
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpUpdate), access.LibraryResource.Name, id, "")
	return out, nil
}

func (s *LibraryService) Delete(ctx context.Context, id string) error {
	if _, err := access.Load(ctx, s.guard, access.LibraryResource, access.OpDelete, id, s.repo.GetByID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpDelete), access.LibraryResource.Name, id, "")
	return nil
}
