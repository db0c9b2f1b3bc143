package routers

import (
	"mindhub-service/internal/app/delivery/http/middlewares"
	"mindhub-service/internal/app/services/core/templates"

	"github.com/go-chi/chi/v5"
)

func attachTemplateRoutes(router chi.Router, middlewares *middlewares.Middlewares, templateController *templates.TemplateController) {
	router.Get("/", templateController.FindAll)
	router.Get("/{templateID}", templateController.FindByID)

	// Catalog reload is an operational action; it needs the superadmin key.
	router.With(middlewares.APIKeyAuth).Post("/reload", templateController.Reload)
}
