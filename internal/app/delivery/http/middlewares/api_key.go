package middlewares

import (
	"net/http"

	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// APIKeyAuth guards the operational endpoints (template reload). The key is
// compared against a stored bcrypt hash so the plaintext never lives in
// configuration.
func (m *Middlewares) APIKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(constvars.HeaderXAPIKey)

		if apiKey == "" || m.InternalConfig.App.SuperadminAPIKeyHash == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrAPIKeyMismatch(nil))
			return
		}

		if !utils.CheckAPIKeyHash(apiKey, m.InternalConfig.App.SuperadminAPIKeyHash) {
			m.Log.Warn("API key authentication failed",
				zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrAPIKeyMismatch(nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}
