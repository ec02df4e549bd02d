package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-restaurant/utils"
)

// Key type for context
type contextKey string

const SessionContextKey = contextKey("session")

// NewAuthMiddleware verifies session tokens and attaches the claims to the context
func NewAuthMiddleware(tokens *utils.SessionTokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header missing", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session id set by the auth middleware
func SessionFromContext(ctx context.Context) (string, bool) {
	claims, ok := ctx.Value(SessionContextKey).(*utils.Claims)
	if !ok {
		return "", false
	}
	return claims.SessionID, true
}
