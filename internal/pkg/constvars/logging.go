package constvars

const (
	LoggingRequestIDKey  = "request_id"
	LoggingMethodKey     = "method"
	LoggingEndpointKey   = "endpoint"
	LoggingRemoteAddrKey = "remote_addr"
	LoggingUserAgentKey  = "user_agent"
	LoggingQueryKey      = "query"
	LoggingStatusCodeKey = "status_code"
	LoggingDurationKey   = "duration"
	LoggingSuccessKey    = "success"
	LoggingRequestKey    = "request"
	LoggingResponseKey   = "response"
	LoggingErrorCountKey = "error_count"
	LoggingWarningKey    = "warning"

	LoggingTemplateIDKey    = "template_id"
	LoggingTemplateCountKey = "template_count"
	LoggingAssessmentIDKey  = "assessment_id"
	LoggingPatientRefKey    = "patient_ref"
	LoggingStatusKey        = "status"
	LoggingFromStatusKey    = "from_status"
	LoggingToStatusKey      = "to_status"
	LoggingTotalScoreKey    = "total_score"
	LoggingItemCountKey     = "item_count"
	LoggingMissingItemsKey  = "missing_items"
	LoggingTokenIDKey       = "token_id"
	LoggingQueueNameKey     = "queue_name"
	LoggingEventTypeKey     = "event_type"
	LoggingObjectNameKey    = "object_name"
	LoggingBucketNameKey    = "bucket_name"

	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingLockStoredValueKey    = "lock_stored_value"
	LoggingLockExpectedValueKey  = "lock_expected_value"
)
