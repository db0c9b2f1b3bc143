package contracts

import (
	"context"
	"mindhub-service/internal/app/models"
	"time"
)

type RemoteAccessUsecase interface {
	// IssueToken invalidates any prior active token for the assessment and
	// returns a fresh one. The two writes happen under a per-assessment lock.
	IssueToken(ctx context.Context, assessmentID, patientRef string, ttl time.Duration) (*models.RemoteAccessToken, error)
	// Validate is side-effect free and returns the token record on success.
	Validate(ctx context.Context, token string) (*models.RemoteAccessToken, error)
	// Consume marks the token used; callers decide when, typically after the
	// final submission of a one-shot flow.
	Consume(ctx context.Context, token string) error
}
