package constvars

type ContextKey string

const (
	ResourceTemplates   = "templates"
	ResourceAssessments = "assessments"
	ResourceRemoteLinks = "remote-links"
)

const (
	AssessmentModeSelf     = "self"
	AssessmentModeAssisted = "assisted"
)

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_SESSION_DATA_KEY         ContextKey = "session_data"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_REMOTE_TOKEN_KEY         ContextKey = "remote_token"
	CONTEXT_OWNER_CONTEXT_KEY        ContextKey = "owner_context"
)

const (
	REQUEST_ID_PREFIX = "MNDHB_SVC_"
)

const (
	AppPaginationUrlFormat = "%s?page=%d&page_size=%d"
)

// InterpretationSubscaleTotal is the pseudo-subscale every interpretation rule
// may target to classify the instrument's grand total.
const InterpretationSubscaleTotal = "total"
