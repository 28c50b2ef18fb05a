// Package auth gates the counter API behind a single operator token.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// Guard verifies the bearer token against a bcrypt hash configured at
// deploy time. An empty hash disables the check, which is the expected
// mode for a terminal on a closed shop network.
type Guard struct {
	logger *slog.Logger
	hash   []byte
}

// NewGuard constructs the guard. tokenHash is the bcrypt hash of the
// operator token, or empty to run open.
func NewGuard(logger *slog.Logger, tokenHash string) *Guard {
	if tokenHash == "" {
		logger.Warn("operator token not configured, api runs unauthenticated")
	}
	return &Guard{logger: logger, hash: []byte(tokenHash)}
}

// Middleware rejects requests without a valid bearer token.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(g.hash) == 0 {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := bearerToken(r)
		if !ok || bcrypt.CompareHashAndPassword(g.hash, []byte(token)) != nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "valid operator token required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}
