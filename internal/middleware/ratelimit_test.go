package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, maxRequests int, isProduction bool) *RateLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRateLimiter(client, maxRequests, time.Minute, isProduction)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(handler http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/movies/popular", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestLimitAllowsUnderThreshold(t *testing.T) {
	limiter := newTestLimiter(t, 5, true)
	handler := limiter.Limit(okHandler())

	for i := 0; i < 5; i++ {
		rec := doRequest(handler)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
}

func TestLimitBlocksOverThreshold(t *testing.T) {
	limiter := newTestLimiter(t, 3, true)
	handler := limiter.Limit(okHandler())

	for i := 0; i < 3; i++ {
		doRequest(handler)
	}
	rec := doRequest(handler)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many requests")
}

func TestLimitSkippedOutsideProduction(t *testing.T) {
	limiter := newTestLimiter(t, 1, false)
	handler := limiter.Limit(okHandler())

	for i := 0; i < 10; i++ {
		rec := doRequest(handler)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
