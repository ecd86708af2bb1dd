package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedHandler(t *testing.T, rps float64, burst int) (http.Handler, *RateLimiter) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	rl := NewRateLimiter(ctx, RateLimitConfig{RequestsPerSecond: rps, Burst: burst})
	return rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})), rl
}

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	handler, _ := newLimitedHandler(t, 100, 10)

	for range 5 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestFrom("10.0.0.1:1000"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	handler, _ := newLimitedHandler(t, 1, 2)

	for range 2 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestFrom("10.0.0.1:1000"))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestFrom("10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.InDelta(t, float64(429), body["code"], 0.001)
	assert.Equal(t, "rate limit exceeded", body["message"])
}

func TestRateLimiter_PerClientIsolation(t *testing.T) {
	handler, _ := newLimitedHandler(t, 1, 2)

	for range 2 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestFrom("10.0.0.1:1234"))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	recA := httptest.NewRecorder()
	handler.ServeHTTP(recA, requestFrom("10.0.0.1:5678"))
	assert.Equal(t, http.StatusTooManyRequests, recA.Code)

	recB := httptest.NewRecorder()
	handler.ServeHTTP(recB, requestFrom("10.0.0.2:1234"))
	assert.Equal(t, http.StatusOK, recB.Code)
}

func TestRateLimiter_IgnoresForwardedFor(t *testing.T) {
	handler, _ := newLimitedHandler(t, 1, 1)

	first := requestFrom("10.0.0.1:1234")
	first.Header.Set("X-Forwarded-For", "203.0.113.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	spoofed := requestFrom("10.0.0.1:1234")
	spoofed.Header.Set("X-Forwarded-For", "203.0.113.2")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, spoofed)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimiter_SweepDropsIdleClients(t *testing.T) {
	handler, rl := newLimitedHandler(t, 1, 1)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestFrom("10.0.0.9:1"))
	require.Len(t, rl.clients, 1)

	rl.sweep(time.Now().Add(limiterIdleTTL / 2))
	assert.Len(t, rl.clients, 1)

	rl.sweep(time.Now().Add(2 * limiterIdleTTL))
	assert.Empty(t, rl.clients)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{name: "IPv4 with port", remoteAddr: "192.168.1.1:12345", want: "192.168.1.1"},
		{name: "IPv6 with port", remoteAddr: "[::1]:12345", want: "::1"},
		{name: "no port", remoteAddr: "192.168.1.1", want: "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clientIP(requestFrom(tt.remoteAddr)))
		})
	}
}
