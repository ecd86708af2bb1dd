package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configVars = []string{
	"DB_PATH", "DB_READ_CONNS", "LISTEN_ADDR", "TLS_CERT_FILE", "TLS_KEY_FILE", "ENCRYPTION_KEY",
	"LOG_LEVEL", "ENV", "ALLOW_INSECURE_HTTP", "SEED_DEMO", "API_KEY_CLEANUP_SCHEDULE",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CORS_ALLOWED_ORIGINS", "JWT_SECRET", "AUTH_TOKEN_ISSUER",
	"AUTH_TOKEN_TTL", "AUTH_ISSUER_URL", "AUTH_JWKS_URL", "AUTH_AUDIENCE", "AUTH_ALLOWED_ISSUERS",
	"AUTH_API_KEY_ENABLED", "AUTH_API_KEY_HEADER",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configVars {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "icare.sqlite", cfg.DBPath)
	assert.Equal(t, 4, cfg.DBReadConns)
	assert.Equal(t, ":4000", cfg.ListenAddr)
	assert.Equal(t, "icare", cfg.Auth.TokenIssuer)
	assert.Equal(t, 720*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "X-API-Key", cfg.Auth.APIKeyHeader)
	assert.True(t, cfg.Auth.APIKeyEnabled)
	assert.False(t, cfg.Auth.OIDCEnabled())
	assert.Equal(t, "@hourly", cfg.APIKeyCleanupSchedule)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, insecureEncryptionKey, cfg.EncryptionKey)
	assert.Equal(t, insecureJWTSecret, cfg.Auth.JWTSecret)
	assert.Len(t, cfg.Warnings, 2)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadFromEnv_AllVarsSet(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PATH", "/var/lib/icare/icare.sqlite")
	t.Setenv("DB_READ_CONNS", "8")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("AUTH_TOKEN_TTL", "2h")
	t.Setenv("AUTH_ISSUER_URL", "https://sso.icare.test")
	t.Setenv("AUTH_AUDIENCE", "icare-api")
	t.Setenv("AUTH_ALLOWED_ISSUERS", "https://sso.icare.test, https://backup.icare.test")
	t.Setenv("AUTH_API_KEY_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test")
	t.Setenv("API_KEY_CLEANUP_SCHEDULE", "off")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SEED_DEMO", "yes")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/icare/icare.sqlite", cfg.DBPath)
	assert.Equal(t, 8, cfg.DBReadConns)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Auth.OIDCEnabled())
	assert.Equal(t, []string{"https://sso.icare.test", "https://backup.icare.test"}, cfg.Auth.AllowedIssuers)
	assert.False(t, cfg.Auth.APIKeyEnabled)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.APIKeyCleanupSchedule)
	assert.True(t, cfg.SeedDemo)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Len(t, cfg.Warnings, 1, "only the encryption key falls back")
}

func TestLoadFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad ttl", map[string]string{"AUTH_TOKEN_TTL": "soon"}, "AUTH_TOKEN_TTL"},
		{"bad read conns", map[string]string{"DB_READ_CONNS": "0"}, "DB_READ_CONNS"},
		{"half tls", map[string]string{"TLS_CERT_FILE": "cert.pem"}, "TLS_KEY_FILE"},
		{"oidc without audience", map[string]string{"AUTH_ISSUER_URL": "https://sso.test"}, "AUTH_AUDIENCE"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadFromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadFromEnv_Production(t *testing.T) {
	secure := map[string]string{
		"ENV":                  "production",
		"JWT_SECRET":           "0123456789abcdef0123456789abcdef",
		"ENCRYPTION_KEY":       "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		"CORS_ALLOWED_ORIGINS": "https://icare.test",
		"TLS_CERT_FILE":        "cert.pem",
		"TLS_KEY_FILE":         "key.pem",
	}

	tests := []struct {
		name     string
		override map[string]string
		want     string
	}{
		{"secure config loads", nil, ""},
		{"default jwt secret", map[string]string{"JWT_SECRET": ""}, "JWT_SECRET must be set"},
		{"short jwt secret", map[string]string{"JWT_SECRET": "short"}, "at least 32"},
		{"default encryption key", map[string]string{"ENCRYPTION_KEY": ""}, "ENCRYPTION_KEY"},
		{"cors wildcard", map[string]string{"CORS_ALLOWED_ORIGINS": "*"}, "CORS wildcard"},
		{"plain http", map[string]string{"TLS_CERT_FILE": "", "TLS_KEY_FILE": ""}, "TLS_CERT_FILE"},
		{"plain http behind proxy", map[string]string{"TLS_CERT_FILE": "", "TLS_KEY_FILE": "", "ALLOW_INSECURE_HTTP": "true"}, ""},
		{"demo seed", map[string]string{"SEED_DEMO": "true"}, "SEED_DEMO"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range secure {
				t.Setenv(k, v)
			}
			for k, v := range tc.override {
				t.Setenv(k, v)
			}
			cfg, err := LoadFromEnv()
			if tc.want == "" {
				require.NoError(t, err)
				assert.True(t, cfg.IsProduction())
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadDotEnv_FileNotFound(t *testing.T) {
	assert.NoError(t, LoadDotEnv("/nonexistent/.env"))
}

func TestLoadDotEnv_ParsesAndRespectsEnv(t *testing.T) {
	t.Setenv("ICARE_TEST_PRESET", "from_env")
	t.Setenv("ICARE_TEST_QUOTED", "")
	t.Setenv("ICARE_TEST_PLAIN", "")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "# comment\n\nICARE_TEST_PRESET=from_file\nICARE_TEST_QUOTED=\"quoted value\"\nICARE_TEST_PLAIN = plain\nnot a pair\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	require.NoError(t, LoadDotEnv(envFile))
	assert.Equal(t, "from_env", os.Getenv("ICARE_TEST_PRESET"))
	assert.Equal(t, "quoted value", os.Getenv("ICARE_TEST_QUOTED"))
	assert.Equal(t, "plain", os.Getenv("ICARE_TEST_PLAIN"))
}

func TestStripQuotes(t *testing.T) {
	tests := map[string]string{
		`"a"`: "a",
		`'b'`: "b",
		`"c'`: `"c'`,
		`"`:   `"`,
		``:    ``,
	}
	for in, want := range tests {
		assert.Equal(t, want, stripQuotes(in), in)
	}
}
