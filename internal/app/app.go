// Package app wires repositories, the access guard, services and the HTTP
// stack for the ICare server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"icare/internal/access"
	"icare/internal/api"
	"icare/internal/config"
	internaldb "icare/internal/db"
	"icare/internal/db/crypto"
	"icare/internal/db/repository"
	"icare/internal/domain"
	"icare/internal/middleware"
	"icare/internal/service/clinic"
	"icare/internal/service/governance"
	"icare/internal/service/identity"
	"icare/internal/service/store"
	"icare/internal/service/support"
)

// Deps holds the external dependencies that main() must provide.
type Deps struct {
	Cfg    *config.Config
	Pool   *internaldb.Pool
	Logger *slog.Logger
}

// repos are kept for seeding, which writes reference data without a caller.
type repos struct {
	users        *repository.UserRepo
	optometrists *repository.OptometristRepo
	library      *repository.LibraryRepo
	products     *repository.ProductRepo
}

// App holds the fully-wired application.
type App struct {
	Services api.Services
	Auth     *middleware.Authenticator
	Tokens   *identity.TokenIssuer
	Registry *prometheus.Registry

	cfg    *config.Config
	logger *slog.Logger
	repos  repos
}

// New wires all repositories and services from the provided deps. ctx bounds
// OIDC discovery when an external identity provider is configured.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pool := deps.Pool

	encryptor, err := crypto.NewEncryptor(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key: %w", err)
	}

	// === Repositories ===
	userRepo := repository.NewUserRepo(pool)
	apiKeyRepo := repository.NewAPIKeyRepo(pool)
	auditRepo := repository.NewAuditRepo(pool)
	optometristRepo := repository.NewOptometristRepo(pool)
	appointmentRepo := repository.NewAppointmentRepo(pool)
	prescriptionRepo := repository.NewPrescriptionRepo(pool)
	libraryRepo := repository.NewLibraryRepo(pool)
	ticketRepo := repository.NewTicketRepo(pool)
	productRepo := repository.NewProductRepo(pool)
	orderRepo := repository.NewOrderRepo(pool)
	cardRepo := repository.NewCardRepo(pool, encryptor)

	// === Access guard + metrics ===
	registry := prometheus.NewRegistry()
	metrics := access.NewMetrics()
	registry.MustRegister(metrics.Collectors()...)
	guard := access.NewGuard(auditRepo, metrics, logger)

	// === Identity ===
	tokens, err := identity.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}
	local, err := middleware.NewHS256Validator(cfg.Auth.JWTSecret, cfg.Auth.TokenIssuer)
	if err != nil {
		return nil, fmt.Errorf("token validator: %w", err)
	}
	var external middleware.JWTValidator
	if cfg.Auth.OIDCEnabled() {
		v, err := newOIDCValidator(ctx, cfg.Auth)
		if err != nil {
			return nil, fmt.Errorf("oidc validator: %w", err)
		}
		external = v
		logger.Info("external identity provider enabled", "issuer", cfg.Auth.IssuerURL)
	}
	auth := middleware.NewAuthenticator(local, external, apiKeyRepo, userRepo, cfg.Auth, logger)

	// === Services ===
	optometristSvc := clinic.NewOptometristService(optometristRepo, auditRepo, guard)
	svc := api.Services{
		Users:         identity.NewUserService(userRepo, auditRepo, guard, tokens),
		APIKeys:       identity.NewAPIKeyService(apiKeyRepo, auditRepo, guard, logger),
		Optometrists:  optometristSvc,
		Appointments:  clinic.NewAppointmentService(appointmentRepo, optometristSvc, auditRepo, guard),
		Prescriptions: clinic.NewPrescriptionService(prescriptionRepo, optometristSvc, auditRepo, guard),
		Library:       clinic.NewLibraryService(libraryRepo, auditRepo, guard),
		Tickets:       support.NewTicketService(ticketRepo, auditRepo, guard),
		Products:      store.NewProductService(productRepo, auditRepo, guard),
		Orders:        store.NewOrderService(orderRepo, productRepo, auditRepo, guard),
		Cards:         store.NewCardService(cardRepo, auditRepo, guard),
		Audit:         governance.NewAuditService(auditRepo, guard),
	}

	return &App{
		Services: svc,
		Auth:     auth,
		Tokens:   tokens,
		Registry: registry,
		cfg:      cfg,
		logger:   logger,
		repos: repos{
			users:        userRepo,
			optometrists: optometristRepo,
			library:      libraryRepo,
			products:     productRepo,
		},
	}, nil
}

func newOIDCValidator(ctx context.Context, cfg config.AuthConfig) (*middleware.OIDCValidator, error) {
	if cfg.JWKSURL != "" {
		return middleware.NewOIDCValidatorFromJWKS(ctx, cfg.JWKSURL, cfg.IssuerURL, cfg.Audience, cfg.AllowedIssuers)
	}
	return middleware.NewOIDCValidator(ctx, cfg.IssuerURL, cfg.Audience, cfg.AllowedIssuers)
}

// Handler builds the HTTP stack: request ids, access log, panic recovery,
// CORS and rate limiting around the API mounted at /api. ctx stops the
// limiter's background sweep.
func (a *App) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(a.logger.With("component", "http")))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", a.cfg.Auth.APIKeyHeader, "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", api.Healthz)
	r.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))

	limiter := middleware.NewRateLimiter(ctx, middleware.RateLimitConfig{
		RequestsPerSecond: a.cfg.RateLimitRPS,
		Burst:             a.cfg.RateLimitBurst,
	})
	handler := api.NewHandler(a.Services, a.logger.With("component", "api"))
	r.With(limiter.Handler).Mount("/api", handler.Router(a.Auth))

	return r
}

// UserByEmail looks up an account for the token command.
func (a *App) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return a.repos.users.GetByEmail(ctx, email)
}
