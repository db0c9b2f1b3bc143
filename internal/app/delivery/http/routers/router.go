package routers

import (
	"time"

	"mindhub-service/internal/app/config"
	"mindhub-service/internal/app/delivery/http/middlewares"
	"mindhub-service/internal/app/services/core/assessments"
	"mindhub-service/internal/app/services/core/remoteaccess"
	"mindhub-service/internal/app/services/core/templates"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	templateController *templates.TemplateController,
	assessmentController *assessments.AssessmentController,
	remoteAccessController *remoteaccess.RemoteAccessController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	router.Use(httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second))

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(middlewares.Log))
	router.Use(middlewares.ErrorHandler)

	router.Route(internalConfig.App.EndpointPrefix, func(r chi.Router) {
		r.Route("/templates", func(r chi.Router) {
			attachTemplateRoutes(r, middlewares, templateController)
		})

		r.Route("/assessments", func(r chi.Router) {
			attachAssessmentRoutes(r, middlewares, assessmentController, remoteAccessController)
		})
	})

	// Patient-facing token-gated flow lives outside the authenticated prefix.
	router.Route("/take", func(r chi.Router) {
		attachRemoteAccessRoutes(r, remoteAccessController)
	})
}
