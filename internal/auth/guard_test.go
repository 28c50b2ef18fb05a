package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGuardDisabledWithoutHash(t *testing.T) {
	guard := NewGuard(slog.Default(), "")
	rec := httptest.NewRecorder()

	guard.Middleware(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardChecksBearerToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("counter-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	guard := NewGuard(slog.Default(), string(hash))
	protected := guard.Middleware(okHandler())

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer counter-secret")
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
