package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/moneytrack-io/moneytrack/internal/respond"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// Middleware gates a route group on a valid bearer token. On success the
// decoded claims are placed in the request context and the embedded user id
// scopes every downstream data operation; the user row is never re-read.
func Middleware(tm *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respond.Error(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respond.Error(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}

			claims, err := tm.Validate(parts[1])
			if err != nil {
				if errors.Is(err, ErrExpiredToken) {
					respond.Error(w, http.StatusUnauthorized, "Token expired. Please log in again.")
					return
				}
				respond.Error(w, http.StatusForbidden, "Invalid token.")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext retrieves the authenticated identity from the context.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}
