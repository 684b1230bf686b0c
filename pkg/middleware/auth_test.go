package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"saasid/pkg/config"
)

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestJWTAuth_HealthBypass(t *testing.T) {
	cfg := config.Config{Env: "prod"}
	next, called := okHandler()
	h := JWTAuth(cfg, uuid.New(), zap.NewNop().Sugar())(next)

	for _, path := range []string{"/healthz", "/metrics"} {
		*called = false
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.True(t, *called, "expected %s to bypass auth", path)
	}
}

func TestJWTAuth_DevBypassWithoutAuthorization(t *testing.T) {
	cfg := config.Config{Env: "dev"}
	next, called := okHandler()
	h := JWTAuth(cfg, uuid.New(), zap.NewNop().Sugar())(next)

	req := httptest.NewRequest(http.MethodPost, "/api/customclaims/permissions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.True(t, *called)
}

func TestJWTAuth_UnconfiguredIsServerError(t *testing.T) {
	cfg := config.Config{Env: "prod"}
	next, called := okHandler()
	h := JWTAuth(cfg, uuid.New(), zap.NewNop().Sugar())(next)

	req := httptest.NewRequest(http.MethodPost, "/api/customclaims/permissions", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.False(t, *called)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
