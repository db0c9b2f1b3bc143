package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mindhub-service/internal/app/config"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newAPIKeyMiddlewares(t *testing.T, apiKey string) *Middlewares {
	t.Helper()
	hash, err := utils.HashAPIKey(apiKey)
	assert.NoError(t, err)
	return &Middlewares{
		Log: zap.NewNop(),
		InternalConfig: &config.InternalConfig{
			App: config.App{SuperadminAPIKeyHash: hash},
		},
	}
}

func TestAPIKeyAuth(t *testing.T) {
	testAPIKey := "test-superadmin-api-key-12345"
	middlewares := newAPIKeyMiddlewares(t, testAPIKey)

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	t.Run("Valid API Key", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/templates/reload", nil)
		req.Header.Set(constvars.HeaderXAPIKey, testAPIKey)

		rr := httptest.NewRecorder()
		middlewares.APIKeyAuth(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "success", rr.Body.String())
	})

	t.Run("Missing API Key", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/templates/reload", nil)

		rr := httptest.NewRecorder()
		middlewares.APIKeyAuth(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Invalid API Key", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/templates/reload", nil)
		req.Header.Set(constvars.HeaderXAPIKey, "invalid-api-key")

		rr := httptest.NewRecorder()
		middlewares.APIKeyAuth(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Case Sensitivity", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/templates/reload", nil)
		req.Header.Set(constvars.HeaderXAPIKey, "TEST-SUPERADMIN-API-KEY-12345")

		rr := httptest.NewRecorder()
		middlewares.APIKeyAuth(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("No Hash Configured Rejects Everything", func(t *testing.T) {
		unconfigured := &Middlewares{
			Log:            zap.NewNop(),
			InternalConfig: &config.InternalConfig{},
		}
		req := httptest.NewRequest("POST", "/api/v1/templates/reload", nil)
		req.Header.Set(constvars.HeaderXAPIKey, testAPIKey)

		rr := httptest.NewRecorder()
		unconfigured.APIKeyAuth(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestTokenRateLimiter(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	serveWithToken := func(limiter *TokenRateLimiter, token string) int {
		router := chi.NewRouter()
		router.With(limiter.Limit).Get("/take/{token}", testHandler)

		req := httptest.NewRequest("GET", "/take/"+token, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	t.Run("requests under the limit pass", func(t *testing.T) {
		limiter := NewTokenRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, serveWithToken(limiter, "abc"))
		}
	})

	t.Run("burst beyond the limit is throttled", func(t *testing.T) {
		limiter := NewTokenRateLimiter(2, time.Minute)

		assert.Equal(t, http.StatusOK, serveWithToken(limiter, "abc"))
		assert.Equal(t, http.StatusOK, serveWithToken(limiter, "abc"))
		assert.Equal(t, http.StatusTooManyRequests, serveWithToken(limiter, "abc"))
	})

	t.Run("tokens are throttled independently", func(t *testing.T) {
		limiter := NewTokenRateLimiter(1, time.Minute)

		assert.Equal(t, http.StatusOK, serveWithToken(limiter, "abc"))
		assert.Equal(t, http.StatusTooManyRequests, serveWithToken(limiter, "abc"))
		assert.Equal(t, http.StatusOK, serveWithToken(limiter, "xyz"))
	})

	t.Run("throttles when Use-mounted on a subrouter", func(t *testing.T) {
		// URL params are not resolved yet in subrouter middlewares, so the
		// limiter must key off the routing path instead.
		limiter := NewTokenRateLimiter(1, time.Minute)
		router := chi.NewRouter()
		router.Route("/take", func(r chi.Router) {
			r.Use(limiter.Limit)
			r.Get("/{token}", testHandler)
			r.Post("/{token}/complete", testHandler)
		})

		serve := func(method, path string) int {
			req := httptest.NewRequest(method, path, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			return rr.Code
		}

		assert.Equal(t, http.StatusOK, serve("GET", "/take/abc"))
		assert.Equal(t, http.StatusTooManyRequests, serve("GET", "/take/abc"))
		assert.Equal(t, http.StatusTooManyRequests, serve("POST", "/take/abc/complete"))
		assert.Equal(t, http.StatusOK, serve("GET", "/take/xyz"))
	})
}
