package constvars

const (
	MongoCollectionAssessments   = "assessments"
	MongoCollectionLegacyRecords = "legacy_scale_records"
)

// Redis key formats. Remote token records are stored twice: once keyed by the
// opaque token for O(1) validation, once keyed by assessment id to enforce the
// single-active-token invariant.
const (
	RedisKeyRemoteTokenFormat          = "remote_token:%s"
	RedisKeyAssessmentTokenIndexFormat = "assessment_active_token:%s"
	RedisKeyFinalizeLockFormat         = "assessment_finalize_lock:%s"
	RedisKeyTokenIssueLockFormat       = "assessment_token_issue_lock:%s"
)

const (
	AssessmentEventsQueueName = "assessment_events_queue"

	EventAssessmentCompleted = "assessment.completed"
	EventAssessmentCancelled = "assessment.cancelled"
)

const (
	ReportObjectNameFormat = "reports/%s.pdf"
)
