package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/previewer-dev/previewer/shared/middleware/ratelimiter"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("allows request within rate limit", func(t *testing.T) {
		rl := ratelimiter.New(1, 1, time.Minute)
		handler := RateLimit(rl, func(r *http.Request) (string, error) { return "10.0.0.1", nil })(okHandler())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("error getting identity", func(t *testing.T) {
		rl := ratelimiter.New(1, 1, time.Minute)
		handler := RateLimit(rl, func(r *http.Request) (string, error) { return "", errors.New("Test error") })(okHandler())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("blocks request exceeding rate limit", func(t *testing.T) {
		rl := ratelimiter.New(0.001, 1, time.Minute)
		handler := RateLimit(rl, GetIP)(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/preview", nil)
		req.RemoteAddr = "203.0.113.50:1111"
		w1 := httptest.NewRecorder()
		handler.ServeHTTP(w1, req)
		assert.Equal(t, http.StatusOK, w1.Code)

		req.RemoteAddr = "203.0.113.50:2222"
		w2 := httptest.NewRecorder()
		handler.ServeHTTP(w2, req)
		assert.Equal(t, http.StatusTooManyRequests, w2.Code)
		assert.Equal(t, "Rate limit exceeded, try again later\n", w2.Body.String())

		req.RemoteAddr = "198.51.100.7:1111"
		w3 := httptest.NewRecorder()
		handler.ServeHTTP(w3, req)
		assert.Equal(t, http.StatusOK, w3.Code, "other clients keep their own budget")
	})
}
