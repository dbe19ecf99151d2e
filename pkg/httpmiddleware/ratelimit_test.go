package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_WithinLimit(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 3, Window: time.Minute})(okHandler())

	for i := range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}
}

func TestRateLimit_Exceeded(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 2, Window: time.Minute})(okHandler())

	for range 2 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimit_PerClient(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 1, Window: time.Minute})(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.RemoteAddr = "10.0.0.2:1234"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	// A different client has its own budget.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, second)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimit_WindowReset(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})

	now := time.Now()
	_, _, allowed := rl.allow("c", now)
	require.True(t, allowed)
	_, _, allowed = rl.allow("c", now)
	require.False(t, allowed)

	// A fresh window restores the budget.
	_, _, allowed = rl.allow("c", now.Add(time.Minute))
	assert.True(t, allowed)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})

	now := time.Now()
	rl.allow("stale", now)
	rl.cleanup(now.Add(2 * time.Minute))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.windows)
}
