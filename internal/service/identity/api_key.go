package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"icare/internal/access"
	"icare/internal/domain"
	"icare/internal/service/auditutil"
)

// APIKeyPrefix marks raw ICare API keys.
const APIKeyPrefix = "ick_"

// APIKeyService provides API key management operations.
type APIKeyService struct {
	repo   domain.APIKeyRepository
	audit  domain.AuditRepository
	guard  *access.Guard
	logger *slog.Logger
	now    func() time.Time
}

// NewAPIKeyService creates a new APIKeyService.
func NewAPIKeyService(repo domain.APIKeyRepository, audit domain.AuditRepository, guard *access.Guard, logger *slog.Logger) *APIKeyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIKeyService{repo: repo, audit: audit, guard: guard, logger: logger.With("component", "api_keys"), now: time.Now}
}

// HashAPIKey returns the stored form of a raw key.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Create generates a key owned by the caller. The raw key is returned once
// and never stored.
func (s *APIKeyService) Create(ctx context.Context, req domain.CreateAPIKeyRequest) (string, *domain.APIKey, error) {
	owner, err := s.guard.AuthorizeCreate(ctx, access.APIKey)
	if err != nil {
		return "", nil, err
	}
	if err := req.Validate(s.now()); err != nil {
		return "", nil, err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, fmt.Errorf("generate key: %w", err)
	}
	raw := APIKeyPrefix + hex.EncodeToString(buf)

	key, err := s.repo.Create(ctx, &domain.APIKey{
		OwnerID:   owner,
		Name:      req.Name,
		KeyPrefix: raw[:len(APIKeyPrefix)+8],
		KeyHash:   HashAPIKey(raw),
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		return "", nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpCreate), access.APIKey.Name, key.ID, "name="+key.Name)
	return raw, key, nil
}

// List returns the caller's keys, or every key for an administrator unless
// mine is set.
func (s *APIKeyService) List(ctx context.Context, mine bool, page domain.PageRequest) ([]domain.APIKey, int64, error) {
	scope, err := s.guard.Scope(ctx, access.APIKey, mine)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, scope, page)
}

// Delete revokes a key. Owners may revoke their own keys.
func (s *APIKeyService) Delete(ctx context.Context, id string) error {
	if _, err := access.Load(ctx, s.guard, access.APIKey, access.OpDelete, id, s.repo.GetByID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpDelete), access.APIKey.Name, id, "")
	return nil
}

// CleanupExpired removes expired keys on behalf of an administrator.
func (s *APIKeyService) CleanupExpired(ctx context.Context) (int64, error) {
	if err := s.guard.AuthorizeCollection(ctx, access.APIKey, access.OpCleanup); err != nil {
		return 0, err
	}
	n, err := s.PurgeExpired(ctx)
	if err != nil {
		return 0, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpCleanup), access.APIKey.Name, "", fmt.Sprintf("count=%d", n))
	return n, nil
}

// PurgeExpired removes expired keys without an authorization check. It is
// run by the scheduler.
func (s *APIKeyService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired api keys: %w", err)
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "expired api keys removed", "count", n)
	}
	return n, nil
}
