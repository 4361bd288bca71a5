package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/voltmart/voltmart/pkg/auth"
	"github.com/voltmart/voltmart/pkg/response"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	roleKey
)

// Auth validates the Bearer token and injects the caller's user ID and role
// into the request context. Missing or invalid tokens get a 401.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, roleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromCtx returns the authenticated user's ID, if Auth has run.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(userIDKey).(uint)
	return id, ok
}

// RoleFromCtx returns the authenticated user's role, if Auth has run.
func RoleFromCtx(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(roleKey).(string)
	return role, ok
}

// WithIdentity returns a request whose context carries the given user ID and
// role, mirroring what Auth injects. Intended for handler tests.
func WithIdentity(r *http.Request, userID uint, role string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	ctx = context.WithValue(ctx, roleKey, role)
	return r.WithContext(ctx)
}
