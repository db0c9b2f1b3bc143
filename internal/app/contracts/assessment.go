package contracts

import (
	"context"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/pkg/dto/requests"
)

type AssessmentUsecase interface {
	Create(ctx context.Context, request *requests.CreateAssessment, owner models.OwnerContext) (*models.Assessment, error)
	Begin(ctx context.Context, assessmentID string) (*models.Assessment, error)
	SubmitResponses(ctx context.Context, assessmentID string, request *requests.SubmitResponses) (*models.Assessment, error)
	Complete(ctx context.Context, assessmentID string, owner models.OwnerContext) (*models.Assessment, error)
	Cancel(ctx context.Context, assessmentID, reason string) (*models.Assessment, error)
	FindByID(ctx context.Context, assessmentID string) (*models.Assessment, error)
	ReportURL(ctx context.Context, assessmentID string) (string, error)
}

type AssessmentRepository interface {
	Insert(ctx context.Context, assessment *models.Assessment) error
	// FindByID returns (nil, nil) when no document exists.
	FindByID(ctx context.Context, assessmentID string) (*models.Assessment, error)
	// UpdateGuarded persists the assessment only while its stored status still
	// equals expected. The boolean reports whether the guard matched; losing
	// the guard is expected contention, not an error.
	UpdateGuarded(ctx context.Context, assessment *models.Assessment, expected models.AssessmentStatus) (bool, error)
	// MergeResponses sets the given response keys individually, preserving
	// concurrent edits to other items, and only while the stored status is one
	// of allowed.
	MergeResponses(ctx context.Context, assessmentID string, responses map[string]models.ItemResponse, allowed []models.AssessmentStatus) (bool, error)
}
