package contracts

import (
	"context"
	"time"
)

// AssessmentEvent is published on assessment lifecycle transitions so
// downstream consumers (notifications, analytics) can react without the
// engine knowing about them.
type AssessmentEvent struct {
	Type         string    `json:"type"`
	AssessmentID string    `json:"assessment_id"`
	TemplateID   string    `json:"template_id"`
	PatientRef   string    `json:"patient_ref"`
	TotalScore   *int      `json:"total_score,omitempty"`
	Severity     string    `json:"severity,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event AssessmentEvent) error
}
