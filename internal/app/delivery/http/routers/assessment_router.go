package routers

import (
	"mindhub-service/internal/app/delivery/http/middlewares"
	"mindhub-service/internal/app/services/core/assessments"
	"mindhub-service/internal/app/services/core/remoteaccess"

	"github.com/go-chi/chi/v5"
)

func attachAssessmentRoutes(
	router chi.Router,
	middlewares *middlewares.Middlewares,
	assessmentController *assessments.AssessmentController,
	remoteAccessController *remoteaccess.RemoteAccessController,
) {
	router.Use(middlewares.SessionAuth)

	router.Post("/", assessmentController.Create)
	router.Get("/{assessmentID}", assessmentController.FindByID)
	router.Post("/{assessmentID}/begin", assessmentController.Begin)
	router.Patch("/{assessmentID}/responses", assessmentController.SubmitResponses)
	router.Post("/{assessmentID}/complete", assessmentController.Complete)
	router.Post("/{assessmentID}/cancel", assessmentController.Cancel)
	router.Get("/{assessmentID}/report", assessmentController.ReportURL)

	router.Post("/{assessmentID}/remote-link", remoteAccessController.IssueLink)
}
