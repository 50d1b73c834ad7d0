// Package httpapi implements the Cardsmith REST API using chi.
package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/cardsmith/cardsmith/internal/server/auth"
)

type ctxKey int

const userIDKey ctxKey = iota

// UserIDFromContext returns the authenticated user id stored by
// AuthMiddleware, or "" when the request was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// AuthMiddleware returns middleware that validates a Bearer JWT and stores
// the authenticated user id in the request context. Requests without a
// valid "Authorization: Bearer <token>" header are rejected with 401.
func AuthMiddleware(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			userID, err := auth.GetUserIDFromToken(tokenString, secretKey)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
