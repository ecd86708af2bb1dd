package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"icare/internal/config"
	"icare/internal/domain"
)

// UserLookup resolves the account behind a credential.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByExternalID(ctx context.Context, issuer, externalID string) (*domain.User, error)
}

// APIKeyLookup finds an API key by the SHA-256 hash of its raw value.
type APIKeyLookup interface {
	GetByHash(ctx context.Context, keyHash string) (*domain.APIKey, error)
}

// Authenticator turns request credentials into a domain.ContextPrincipal.
// It tries the bearer token first (local tokens, then the external identity
// provider when configured) and falls back to an API key.
type Authenticator struct {
	local    JWTValidator
	external JWTValidator
	apiKeys  APIKeyLookup
	users    UserLookup
	cfg      config.AuthConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthenticator creates an Authenticator. external and apiKeys may be nil.
func NewAuthenticator(local, external JWTValidator, apiKeys APIKeyLookup, users UserLookup,
	cfg config.AuthConfig, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		local:    local,
		external: external,
		apiKeys:  apiKeys,
		users:    users,
		cfg:      cfg,
		logger:   logger.With("component", "auth"),
		now:      time.Now,
	}
}

var errNoCredentials = errors.New("no credentials")

// invalidTokenMessage is the only reason given to clients for a rejected token.
const invalidTokenMessage = "invalid or expired token"

// invalidToken logs why validation failed and returns the generic error.
func (a *Authenticator) invalidToken(ctx context.Context, validator string, err error) error {
	a.logger.DebugContext(ctx, "token rejected",
		"validator", validator, "error", err, "request_id", RequestIDFromContext(ctx))
	return domain.ErrUnauthenticated(invalidTokenMessage)
}

// Middleware rejects requests without a valid credential with 401.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := a.authenticate(r)
			if err != nil {
				a.reject(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(domain.WithPrincipal(r.Context(), *p)))
		})
	}
}

// Optional admits anonymous requests. A credential that is present but
// invalid or expired is ignored and the request continues without a
// principal; lookup failures are still 500s.
func (a *Authenticator) Optional() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := a.authenticate(r)
			var unauth *domain.UnauthenticatedError
			switch {
			case errors.Is(err, errNoCredentials):
				next.ServeHTTP(w, r)
			case errors.As(err, &unauth):
				a.logger.DebugContext(r.Context(), "ignoring invalid credential on public route",
					"reason", unauth.Message, "request_id", RequestIDFromContext(r.Context()))
				next.ServeHTTP(w, r)
			case err != nil:
				a.reject(w, r, err)
			default:
				next.ServeHTTP(w, r.WithContext(domain.WithPrincipal(r.Context(), *p)))
			}
		})
	}
}

func (a *Authenticator) authenticate(r *http.Request) (*domain.ContextPrincipal, error) {
	ctx := r.Context()

	if auth := r.Header.Get("Authorization"); auth != "" {
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return nil, domain.ErrUnauthenticated("malformed Authorization header")
		}
		return a.fromToken(ctx, strings.TrimSpace(token))
	}

	if a.cfg.APIKeyEnabled && a.apiKeys != nil {
		if raw := r.Header.Get(a.cfg.APIKeyHeader); raw != "" {
			return a.fromAPIKey(ctx, raw)
		}
	}

	return nil, errNoCredentials
}

func (a *Authenticator) fromToken(ctx context.Context, token string) (*domain.ContextPrincipal, error) {
	if a.local != nil {
		claims, err := a.local.Validate(ctx, token)
		if err == nil {
			if claims.Subject == "" {
				return nil, domain.ErrUnauthenticated("invalid token claims")
			}
			return a.principalFor(a.users.GetByID(ctx, claims.Subject))
		}
		if a.external == nil {
			return nil, a.invalidToken(ctx, "local", err)
		}
	}
	if a.external == nil {
		return nil, domain.ErrUnauthenticated(invalidTokenMessage)
	}

	claims, err := a.external.Validate(ctx, token)
	if err != nil {
		return nil, a.invalidToken(ctx, "external", err)
	}
	if claims.Subject == "" {
		return nil, domain.ErrUnauthenticated("invalid token claims")
	}
	return a.principalFor(a.users.GetByExternalID(ctx, claims.Issuer, claims.Subject))
}

func (a *Authenticator) fromAPIKey(ctx context.Context, raw string) (*domain.ContextPrincipal, error) {
	sum := sha256.Sum256([]byte(raw))
	key, err := a.apiKeys.GetByHash(ctx, hex.EncodeToString(sum[:]))
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, domain.ErrUnauthenticated("invalid API key")
		}
		return nil, err
	}
	if key.Expired(a.now()) {
		return nil, domain.ErrUnauthenticated("API key expired")
	}
	return a.principalFor(a.users.GetByID(ctx, key.OwnerID))
}

// principalFor builds the principal from the account as it is now, so a
// revoked admin flag takes effect on the next request.
func (a *Authenticator) principalFor(u *domain.User, err error) (*domain.ContextPrincipal, error) {
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, domain.ErrUnauthenticated("account no longer exists")
		}
		return nil, err
	}
	return &domain.ContextPrincipal{ID: u.ID, Name: u.Name, IsAdmin: u.IsAdmin}, nil
}

func (a *Authenticator) reject(w http.ResponseWriter, r *http.Request, err error) {
	var unauth *domain.UnauthenticatedError
	code, msg := http.StatusUnauthorized, "unauthorized: provide a valid Bearer token or API key"
	switch {
	case errors.As(err, &unauth):
		msg = unauth.Message
	case errors.Is(err, errNoCredentials):
	default:
		a.logger.ErrorContext(r.Context(), "credential lookup failed",
			"error", err, "request_id", RequestIDFromContext(r.Context()))
		code, msg = http.StatusInternalServerError, "internal server error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    code,
		"message": msg,
	})
}
