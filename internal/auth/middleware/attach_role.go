package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/mind-engage/mindengage-grades/internal/rbac"
)

// RoleLookup resolves a user's current role.
type RoleLookup interface {
	Role(ctx context.Context, id string) (string, error)
}

// AttachRole replaces the token's role with the stored one, so a demoted or
// deleted user loses access before the token expires. Runs after
// JWTMiddleware.
func AttachRole(users RoleLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			role, err := users.Role(ctx, SubjectFromContext(ctx))
			switch {
			case err == nil && role != "":
				next.ServeHTTP(w, r.WithContext(rbac.WithRole(ctx, role)))
			case errors.Is(err, ErrUserNotFound):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "role lookup failed", http.StatusInternalServerError)
			}
		})
	}
}
