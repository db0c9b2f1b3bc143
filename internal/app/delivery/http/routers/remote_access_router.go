package routers

import (
	"time"

	"mindhub-service/internal/app/delivery/http/middlewares"
	"mindhub-service/internal/app/services/core/remoteaccess"

	"github.com/go-chi/chi/v5"
)

func attachRemoteAccessRoutes(router chi.Router, remoteAccessController *remoteaccess.RemoteAccessController) {
	tokenLimiter := middlewares.NewTokenRateLimiter(30, time.Minute)
	router.Use(tokenLimiter.Limit)

	router.Get("/{token}", remoteAccessController.Take)
	router.Patch("/{token}/responses", remoteAccessController.SubmitResponses)
	router.Post("/{token}/complete", remoteAccessController.Complete)
}
