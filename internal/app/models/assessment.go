package models

import "time"

type AssessmentStatus string

const (
	AssessmentStatusPending    AssessmentStatus = "pending"
	AssessmentStatusInProgress AssessmentStatus = "in_progress"
	AssessmentStatusCompleted  AssessmentStatus = "completed"
	AssessmentStatusCancelled  AssessmentStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed out of the status.
func (s AssessmentStatus) Terminal() bool {
	return s == AssessmentStatusCompleted || s == AssessmentStatusCancelled
}

// ItemResponse is a single submitted answer keyed by item number. Value is nil
// until the patient answers; Text carries free-text remarks when the item
// allows them.
type ItemResponse struct {
	Value *int   `json:"value,omitempty" bson:"value,omitempty"`
	Text  string `json:"text,omitempty" bson:"text,omitempty"`
}

// ScoreResult is the scoring engine output persisted on completion.
type ScoreResult struct {
	Total        int            `json:"total" bson:"total"`
	Subscales    map[string]int `json:"subscales,omitempty" bson:"subscales,omitempty"`
	MissingItems []int          `json:"missingItems,omitempty" bson:"missingItems,omitempty"`
	Partial      bool           `json:"partial,omitempty" bson:"partial,omitempty"`
}

// InterpretationBand is one classified score, either the grand total or a
// named subscale.
type InterpretationBand struct {
	Subscale     string `json:"subscale" bson:"subscale"`
	ScoreUsed    int    `json:"scoreUsed" bson:"scoreUsed"`
	Label        string `json:"label" bson:"label"`
	Severity     string `json:"severity" bson:"severity"`
	Unclassified bool   `json:"unclassified,omitempty" bson:"unclassified,omitempty"`
}

type InterpretationResult struct {
	Bands []InterpretationBand `json:"bands" bson:"bands"`
	// HasWarnings is set when any band fell into no authored rule range.
	HasWarnings bool `json:"hasWarnings,omitempty" bson:"hasWarnings,omitempty"`
}

// TotalBand returns the band classifying the grand total, if present.
func (r *InterpretationResult) TotalBand() (InterpretationBand, bool) {
	for _, band := range r.Bands {
		if band.Subscale == "total" {
			return band, true
		}
	}
	return InterpretationBand{}, false
}

// OwnerContext is the opaque tenancy/audit stamp supplied by the host
// application. The engine records it verbatim and never branches on it.
type OwnerContext struct {
	LicenseType string `json:"licenseType,omitempty" bson:"licenseType,omitempty"`
	ClinicID    string `json:"clinicId,omitempty" bson:"clinicId,omitempty"`
	WorkspaceID string `json:"workspaceId,omitempty" bson:"workspaceId,omitempty"`
	ActorID     string `json:"actorId,omitempty" bson:"actorId,omitempty"`
}

type Assessment struct {
	ID               string                  `json:"id" bson:"_id"`
	TemplateID       string                  `json:"templateId" bson:"templateId"`
	PatientRef       string                  `json:"patientRef" bson:"patientRef"`
	AdministratorRef string                  `json:"administratorRef" bson:"administratorRef"`
	ConsultationRef  string                  `json:"consultationRef,omitempty" bson:"consultationRef,omitempty"`
	Mode             string                  `json:"mode" bson:"mode"`
	Status           AssessmentStatus        `json:"status" bson:"status"`
	Responses        map[string]ItemResponse `json:"responses,omitempty" bson:"responses,omitempty"`
	Scores           *ScoreResult            `json:"scores,omitempty" bson:"scores,omitempty"`
	Interpretation   *InterpretationResult   `json:"interpretation,omitempty" bson:"interpretation,omitempty"`
	CancelReason     string                  `json:"cancelReason,omitempty" bson:"cancelReason,omitempty"`
	Owner            OwnerContext            `json:"owner,omitempty" bson:"owner,omitempty"`
	ReportObjectName string                  `json:"-" bson:"reportObjectName,omitempty"`
	StartedAt        *time.Time              `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	CompletedAt      *time.Time              `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	CreatedAt        time.Time               `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt" bson:"updatedAt"`
}

// DurationSeconds derives the time a patient spent on the assessment. Zero
// until both timestamps are set.
func (a *Assessment) DurationSeconds() int64 {
	if a.StartedAt == nil || a.CompletedAt == nil {
		return 0
	}
	return int64(a.CompletedAt.Sub(*a.StartedAt).Seconds())
}
