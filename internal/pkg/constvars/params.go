package constvars

const (
	URLParamTemplateID   = "templateID"
	URLParamAssessmentID = "assessmentID"
	URLParamRemoteToken  = "token"
)
