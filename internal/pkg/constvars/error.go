package constvars

// Client messages are safe to show to end users; dev messages are logged and
// only echoed outside production.
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientTooManyRequests               = "too many requests, please slow down"

	ErrClientUnknownTemplate      = "the requested scale is not available"
	ErrClientAssessmentNotFound   = "assessment not found"
	ErrClientAssessmentFinalized  = "this assessment has already been finalized"
	ErrClientInvalidTransition    = "this action is not allowed in the assessment's current state"
	ErrClientIncompleteResponses  = "some items have not been answered yet"
	ErrClientAssessmentContention = "the assessment is being finalized by someone else, please retry"
	ErrClientReportNotReady       = "the report is not available for this assessment"

	ErrClientRemoteLinkInvalid  = "this assessment link is not valid"
	ErrClientRemoteLinkExpired  = "this assessment link has expired"
	ErrClientRemoteLinkConsumed = "this assessment link has already been used"
)

const (
	ErrDevInvalidInput           = "invalid input"
	ErrDevCannotParseJSON        = "cannot parse JSON"
	ErrDevValidationFailed       = "validation failed"
	ErrDevServerProcess          = "internal server process failed"
	ErrDevServerDeadlineExceeded = "server deadline exceeded"

	ErrDevURLParamIDValidationFailed = "invalid URL param: %s"

	ErrDevAuthSigningMethod         = "unexpected signing method"
	ErrDevAuthTokenInvalid          = "invalid token"
	ErrDevAuthTokenInvalidOrExpired = "token invalid or expired"
	ErrDevAuthTokenMissing          = "token missing"
	ErrDevAuthGenerateToken         = "failed to generate token"
	ErrDevAuthAPIKeyMismatch        = "api key does not match configured hash"

	ErrDevTemplateUnknown         = "template id not found in catalog: %s"
	ErrDevTemplateLoadFailed      = "failed to load template definitions from %s"
	ErrDevAssessmentNotFound      = "assessment document not found: %s"
	ErrDevAssessmentFinalized     = "assessment already finalized"
	ErrDevInvalidTransition       = "invalid assessment state transition"
	ErrDevIncompleteResponses     = "responses incomplete for completion"
	ErrDevFinalizeLockNotAcquired = "finalize lock not acquired for assessment %s"
	ErrDevReportNotGenerated      = "no report object recorded for assessment %s"

	ErrDevRemoteTokenNotFound = "remote access token not found"
	ErrDevRemoteTokenExpired  = "remote access token expired"
	ErrDevRemoteTokenConsumed = "remote access token consumed"
	ErrDevRemoteTokenIssue    = "failed to issue remote access token"

	ErrDevDBFailedToInsertDocument   = "failed to insert document into database"
	ErrDevDBFailedToUpdateDocument   = "failed to update document into database"
	ErrDevDBFailedToFindDocument     = "failed when do find document on database"
	ErrDevDBFailedToDeleteDocument   = "failed to delete document from database"
	ErrDevDBFailedToIterateDocuments = "failed to iterate documents from database"
	ErrDevDBStringNotObjectID        = "string is not a valid object id"

	ErrDevRedisGetNoData  = "no data in redis for key %s"
	ErrDevRedisGetData    = "failed to get data from redis"
	ErrDevRedisSetData    = "failed to set data in redis"
	ErrDevRedisDeleteData = "failed to delete data from redis"
	ErrDevRedisExpireData = "failed to set expiry on redis key"
	ErrDevRedisUnlock     = "failed to release redis lock"

	ErrDevRabbitMQPublishMessage = "failed to publish message to queue %s"

	ErrDevMinioFailedToCreateObject  = "failed to create object in bucket %s"
	ErrDevMinioFailedToPresignObject = "failed to presign object in bucket %s"

	ErrDevPDFGenerateFailed = "failed to generate PDF report"
)
