package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lorrc/ticket-metrics-backend/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UsernameKey is the context key for the authenticated username
	UsernameKey contextKey = "username"
)

// OptionalIdentity returns a middleware that resolves a bearer token into a
// username when one is presented. Requests without an Authorization header
// pass through anonymously; requests with an invalid token are rejected.
func OptionalIdentity(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeAuthError(w, "Invalid authorization header format")
				return
			}

			claims, err := tm.ValidateToken(token)
			if err != nil {
				writeAuthError(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UsernameKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUsername retrieves the authenticated username from the context.
// Returns an empty string for anonymous requests.
func GetUsername(ctx context.Context) string {
	if username, ok := ctx.Value(UsernameKey).(string); ok {
		return username
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `","code":"UNAUTHORIZED"}`))
}
