package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/theLastOfCats/ficbox/internal/auth"
)

type Middleware struct {
	// Tokens is nil when no widget secret is configured; routes are then open.
	Tokens *auth.Tokens
	Logger *slog.Logger
}

func (m *Middleware) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Tokens == nil {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			JSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			JSONError(w, "Invalid authorization header", http.StatusUnauthorized)
			return
		}

		if _, err := m.Tokens.Validate(parts[1]); err != nil {
			if m.Logger != nil {
				m.Logger.Warn("rejected widget token", "path", r.URL.Path, "error", err)
			}
			JSONError(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
