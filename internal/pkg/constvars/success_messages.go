package constvars

const (
	FindTemplatesSuccessMessage    = "Successfully fetched scale templates"
	FindTemplateByIDSuccessMessage = "Successfully fetched scale template"
	ReloadTemplatesSuccessMessage  = "Successfully reloaded scale templates"

	CreateAssessmentSuccessMessage   = "Successfully created assessment"
	BeginAssessmentSuccessMessage    = "Successfully started assessment"
	SubmitResponsesSuccessMessage    = "Successfully saved responses"
	CompleteAssessmentSuccessMessage = "Successfully completed assessment"
	CancelAssessmentSuccessMessage   = "Successfully cancelled assessment"
	FindAssessmentSuccessMessage     = "Successfully fetched assessment"
	AssessmentReportSuccessMessage   = "Successfully generated assessment report link"

	IssueRemoteLinkSuccessMessage  = "Successfully issued remote assessment link"
	RemoteAssessmentSuccessMessage = "Successfully fetched remote assessment"
)
