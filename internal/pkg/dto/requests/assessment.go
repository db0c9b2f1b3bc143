package requests

type CreateAssessment struct {
	TemplateID       string `json:"template_id" validate:"required"`
	PatientRef       string `json:"patient_ref" validate:"required"`
	AdministratorRef string `json:"administrator_ref" validate:"required"`
	ConsultationRef  string `json:"consultation_ref,omitempty"`
	Mode             string `json:"mode" validate:"required,oneof=self assisted"`
}

type ItemResponseInput struct {
	Value *int   `json:"value,omitempty"`
	Text  string `json:"text,omitempty"`
}

// SubmitResponses merges the given item answers into the assessment. Keys are
// item numbers as strings; omitted items are left untouched (autosave
// semantics).
type SubmitResponses struct {
	Responses map[string]ItemResponseInput `json:"responses" validate:"required,min=1"`
	Partial   bool                         `json:"partial,omitempty"`
}

type CancelAssessment struct {
	Reason string `json:"reason" validate:"required"`
}

type IssueRemoteLink struct {
	PatientRef   string `json:"patient_ref" validate:"required"`
	TTLInMinutes int    `json:"ttl_in_minutes,omitempty" validate:"omitempty,gt=0,lte=43200"`
}
