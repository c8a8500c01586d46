package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/inventory-simulator/internal/auth"
	"github.com/rogerio-castellano/inventory-simulator/internal/logger"
)

type contextKey string

const subjectKey = contextKey("subject")

// RequireBearer rejects requests without a valid "Bearer <jwt>" Authorization header.
func RequireBearer(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "missing or invalid token")
				return
			}

			subject, err := tm.ParseToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.Logger.Warn().
					Err(err).
					Str("path", r.URL.Path).
					Msg("rejected bearer token")
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Subject returns the token subject stored by RequireBearer, if any.
func Subject(r *http.Request) string {
	if val, ok := r.Context().Value(subjectKey).(string); ok {
		return val
	}
	return ""
}
