// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	insecureJWTSecret     = "icare-insecure-dev-secret"
	insecureEncryptionKey = "0000000000000000000000000000000000000000000000000000000000000000"
)

// AuthConfig holds authentication and identity provider configuration.
type AuthConfig struct {
	// Locally issued tokens (signup/signin)
	JWTSecret   string        // HS256 shared secret
	TokenIssuer string        // iss claim on local tokens (default: icare)
	TokenTTL    time.Duration // lifetime of local tokens (default: 720h)

	// Optional external identity provider for staff SSO
	IssuerURL      string   // OIDC issuer URL
	JWKSURL        string   // Override JWKS URL (if no .well-known discovery)
	Audience       string   // Required JWT audience claim
	AllowedIssuers []string // Accepted issuers (defaults to [IssuerURL])

	// API key settings
	APIKeyEnabled bool   // Enable API key auth (default: true)
	APIKeyHeader  string // Header name for API keys (default: X-API-Key)
}

// OIDCEnabled returns true when an external identity provider is configured.
func (a *AuthConfig) OIDCEnabled() bool {
	return a.IssuerURL != "" || a.JWKSURL != ""
}

// Validate checks that the auth configuration is internally consistent.
func (a *AuthConfig) Validate() error {
	if a.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if a.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be positive")
	}
	if a.IssuerURL != "" && a.Audience == "" {
		return fmt.Errorf("AUTH_AUDIENCE is required when AUTH_ISSUER_URL is set")
	}
	if a.JWKSURL != "" && a.IssuerURL == "" && len(a.AllowedIssuers) == 0 {
		return fmt.Errorf("AUTH_ALLOWED_ISSUERS is required when only AUTH_JWKS_URL is set")
	}
	return nil
}

// Config holds the configuration for the ICare API server.
type Config struct {
	DBPath            string // path to the SQLite datastore (default "icare.sqlite")
	DBReadConns       int    // read pool size (default 4)
	ListenAddr        string // HTTP listen address (default ":4000")
	TLSCertFile       string // TLS certificate file path (optional)
	TLSKeyFile        string // TLS private key file path (optional)
	AllowInsecureHTTP bool   // allow non-TLS listener in production (for trusted TLS termination)
	EncryptionKey     string // 64-char hex string (32-byte AES key) sealing card numbers and CVVs
	LogLevel          string // log level: debug, info, warn, error (default "info")
	Env               string // environment: "development" (default) or "production"

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 100)
	RateLimitBurst int     // burst capacity (default 200)

	// CORS
	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	// Auth holds identity provider and authentication configuration.
	Auth AuthConfig

	// APIKeyCleanupSchedule is a cron spec for purging expired API keys
	// (default "@hourly"; empty string after "off" disables the job).
	APIKeyCleanupSchedule string

	// SeedDemo loads the demo catalogue and accounts on startup.
	SeedDemo bool

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		DBPath:                os.Getenv("DB_PATH"),
		ListenAddr:            os.Getenv("LISTEN_ADDR"),
		TLSCertFile:           os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:            os.Getenv("TLS_KEY_FILE"),
		EncryptionKey:         os.Getenv("ENCRYPTION_KEY"),
		LogLevel:              os.Getenv("LOG_LEVEL"),
		Env:                   os.Getenv("ENV"),
		AllowInsecureHTTP:     parseBoolEnvDefault("ALLOW_INSECURE_HTTP", false),
		SeedDemo:              parseBoolEnvDefault("SEED_DEMO", false),
		APIKeyCleanupSchedule: os.Getenv("API_KEY_CLEANUP_SCHEDULE"),
	}

	if v := os.Getenv("DB_READ_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("DB_READ_CONNS must be a positive integer, got %q", v)
		}
		cfg.DBReadConns = n
	}

	// Rate limiting
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		}
	}

	// CORS
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}

	// Auth config
	cfg.Auth = AuthConfig{
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenIssuer:   os.Getenv("AUTH_TOKEN_ISSUER"),
		IssuerURL:     os.Getenv("AUTH_ISSUER_URL"),
		JWKSURL:       os.Getenv("AUTH_JWKS_URL"),
		Audience:      os.Getenv("AUTH_AUDIENCE"),
		APIKeyEnabled: parseBoolEnvDefault("AUTH_API_KEY_ENABLED", true),
		APIKeyHeader:  os.Getenv("AUTH_API_KEY_HEADER"),
	}
	if v := os.Getenv("AUTH_ALLOWED_ISSUERS"); v != "" {
		cfg.Auth.AllowedIssuers = splitList(v)
	}
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("AUTH_TOKEN_TTL: %w", err)
		}
		cfg.Auth.TokenTTL = d
	}

	// Auth config defaults
	if cfg.Auth.TokenIssuer == "" {
		cfg.Auth.TokenIssuer = "icare"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 30 * 24 * time.Hour
	}
	if cfg.Auth.APIKeyHeader == "" {
		cfg.Auth.APIKeyHeader = "X-API-Key"
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = insecureJWTSecret
		cfg.Warnings = append(cfg.Warnings, "JWT_SECRET not set: using insecure default. Set JWT_SECRET in production!")
	}

	// Defaults
	if cfg.DBPath == "" {
		cfg.DBPath = "icare.sqlite"
	}
	if cfg.DBReadConns == 0 {
		cfg.DBReadConns = 4
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":4000"
	}
	if cfg.APIKeyCleanupSchedule == "" {
		cfg.APIKeyCleanupSchedule = "@hourly"
	}
	if strings.EqualFold(cfg.APIKeyCleanupSchedule, "off") {
		cfg.APIKeyCleanupSchedule = ""
	}
	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return nil, fmt.Errorf("both TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if cfg.EncryptionKey == "" {
		cfg.EncryptionKey = insecureEncryptionKey
		cfg.Warnings = append(cfg.Warnings, "ENCRYPTION_KEY not set: using insecure default. Set ENCRYPTION_KEY in production!")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 100
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 200
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	if err := cfg.Auth.Validate(); err != nil {
		return nil, err
	}

	// Production mode: insecure defaults are fatal errors.
	if cfg.IsProduction() {
		if cfg.Auth.JWTSecret == insecureJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be set in production (ENV=production)")
		}
		if len(cfg.Auth.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
		if cfg.EncryptionKey == insecureEncryptionKey {
			return nil, fmt.Errorf("ENCRYPTION_KEY must be set in production (ENV=production)")
		}
		if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
			return nil, fmt.Errorf("CORS wildcard (*) is not allowed in production (ENV=production)")
		}
		if cfg.TLSCertFile == "" && !cfg.AllowInsecureHTTP {
			return nil, fmt.Errorf("TLS_CERT_FILE/TLS_KEY_FILE must be set in production unless ALLOW_INSECURE_HTTP=true")
		}
		if cfg.SeedDemo {
			return nil, fmt.Errorf("SEED_DEMO is not allowed in production (ENV=production)")
		}
	}

	return cfg, nil
}

func parseBoolEnvDefault(key string, defaultVal bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if v == "" {
		return defaultVal
	}
	if v == "0" || v == "false" || v == "no" || v == "off" {
		return false
	}
	if v == "1" || v == "true" || v == "yes" || v == "on" {
		return true
	}
	return defaultVal
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripQuotes(strings.TrimSpace(value))
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
