package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
)

// RequireRoles allows only callers whose role is one of roles. Roles compare
// case-insensitively.
func RequireRoles(roles ...user.Role) func(http.Handler) http.Handler {
	allowed := make(map[user.Role]bool, len(roles))
	for _, role := range roles {
		allowed[user.NormalizeRole(string(role))] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.HandleError(w, user.ErrActorMissing)
				return
			}

			if !allowed[actor.Role] {
				response.HandleError(w, user.ErrInsufficientRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
