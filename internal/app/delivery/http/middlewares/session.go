package middlewares

import (
	"context"
	"net/http"
	"strings"

	"mindhub-service/internal/app/models"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"
)

// SessionAuth authenticates the clinician-facing endpoints with a bearer JWT
// issued by the host platform and stamps the actor onto the request context as
// the owner context the engine records.
func (m *Middlewares) SessionAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(constvars.HeaderAuthorization)
		if header == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		actorID, err := utils.ParseSessionJWT(tokenString, m.InternalConfig.JWT.Secret)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		owner := models.OwnerContext{ActorID: actorID}
		ctx := context.WithValue(r.Context(), constvars.CONTEXT_OWNER_CONTEXT_KEY, owner)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
