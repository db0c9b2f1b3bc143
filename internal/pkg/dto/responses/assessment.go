package responses

import (
	"mindhub-service/internal/app/models"
	"time"
)

type AssessmentResult struct {
	AssessmentID    string                       `json:"assessment_id"`
	TemplateID      string                       `json:"template_id"`
	Status          models.AssessmentStatus      `json:"status"`
	Scores          *models.ScoreResult          `json:"scores,omitempty"`
	Interpretation  *models.InterpretationResult `json:"interpretation,omitempty"`
	StartedAt       *time.Time                   `json:"started_at,omitempty"`
	CompletedAt     *time.Time                   `json:"completed_at,omitempty"`
	DurationSeconds int64                        `json:"duration_seconds,omitempty"`
}

func NewAssessmentResult(assessment *models.Assessment) *AssessmentResult {
	return &AssessmentResult{
		AssessmentID:    assessment.ID,
		TemplateID:      assessment.TemplateID,
		Status:          assessment.Status,
		Scores:          assessment.Scores,
		Interpretation:  assessment.Interpretation,
		StartedAt:       assessment.StartedAt,
		CompletedAt:     assessment.CompletedAt,
		DurationSeconds: assessment.DurationSeconds(),
	}
}

type RemoteLink struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RemoteAssessment is what the token-gated flow serves to the patient UI:
// the instrument definition plus any previously saved answers.
type RemoteAssessment struct {
	Template  *models.ScaleTemplate          `json:"template"`
	Status    models.AssessmentStatus        `json:"status"`
	Responses map[string]models.ItemResponse `json:"responses,omitempty"`
}

type ReportLink struct {
	AssessmentID string `json:"assessment_id"`
	URL          string `json:"url"`
}
