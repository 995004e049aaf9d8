package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
)

// actorOrAbort returns the authenticated caller, writing 401 when it is missing.
func actorOrAbort(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok || actor.UserID == "" {
		response.HandleError(w, user.ErrActorMissing)
		return user.Actor{}, false
	}
	return actor, true
}
