package assessments

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/app/services/core/interpretation"
	"mindhub-service/internal/app/services/core/scoring"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/exceptions"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const finalizeLockExpiration = 15 * time.Second

type assessmentUsecase struct {
	AssessmentRepository contracts.AssessmentRepository
	TemplateStore        contracts.TemplateStore
	LockerService        contracts.LockerService
	EventPublisher       contracts.EventPublisher
	ReportService        contracts.ReportService
	Storage              contracts.Storage
	Log                  *zap.Logger
}

var (
	assessmentUsecaseInstance contracts.AssessmentUsecase
	onceAssessmentUsecase     sync.Once
)

func NewAssessmentUsecase(
	assessmentRepository contracts.AssessmentRepository,
	templateStore contracts.TemplateStore,
	lockerService contracts.LockerService,
	eventPublisher contracts.EventPublisher,
	reportService contracts.ReportService,
	storage contracts.Storage,
	logger *zap.Logger,
) contracts.AssessmentUsecase {
	onceAssessmentUsecase.Do(func() {
		instance := &assessmentUsecase{
			AssessmentRepository: assessmentRepository,
			TemplateStore:        templateStore,
			LockerService:        lockerService,
			EventPublisher:       eventPublisher,
			ReportService:        reportService,
			Storage:              storage,
			Log:                  logger,
		}
		assessmentUsecaseInstance = instance
	})
	return assessmentUsecaseInstance
}

func (uc *assessmentUsecase) Create(ctx context.Context, request *requests.CreateAssessment, owner models.OwnerContext) (*models.Assessment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("assessmentUsecase.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, request.TemplateID),
		zap.String(constvars.LoggingPatientRefKey, request.PatientRef),
	)

	if _, ok := uc.TemplateStore.Get(request.TemplateID); !ok {
		uc.Log.Error("assessmentUsecase.Create template not in catalog",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTemplateIDKey, request.TemplateID),
		)
		return nil, exceptions.ErrTemplateUnknown(fmt.Errorf("%w: %s", ErrUnknownTemplate, request.TemplateID), request.TemplateID)
	}

	now := time.Now().UTC()
	assessment := &models.Assessment{
		ID:               uuid.NewString(),
		TemplateID:       request.TemplateID,
		PatientRef:       request.PatientRef,
		AdministratorRef: request.AdministratorRef,
		ConsultationRef:  request.ConsultationRef,
		Mode:             request.Mode,
		Status:           models.AssessmentStatusPending,
		Responses:        map[string]models.ItemResponse{},
		Owner:            owner,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uc.AssessmentRepository.Insert(ctx, assessment); err != nil {
		uc.Log.Error("assessmentUsecase.Create error inserting assessment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("assessmentUsecase.Create succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessment.ID),
	)
	return assessment, nil
}

// Begin moves a pending assessment to in_progress and stamps StartedAt. It is
// idempotent for assessments already in progress so a patient reopening the
// form does not trip the guard.
func (uc *assessmentUsecase) Begin(ctx context.Context, assessmentID string) (*models.Assessment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("assessmentUsecase.Begin called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	assessment, err := uc.findExisting(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	if assessment.Status == models.AssessmentStatusInProgress {
		return assessment, nil
	}
	if err := guardTransition(assessment.Status, models.AssessmentStatusInProgress); err != nil {
		return nil, uc.transitionError(requestID, assessmentID, err)
	}

	now := time.Now().UTC()
	assessment.Status = models.AssessmentStatusInProgress
	assessment.StartedAt = &now
	assessment.UpdatedAt = now

	matched, err := uc.AssessmentRepository.UpdateGuarded(ctx, assessment, models.AssessmentStatusPending)
	if err != nil {
		uc.Log.Error("assessmentUsecase.Begin error updating assessment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if !matched {
		// Raced with another transition. Losing to a concurrent Begin is
		// still success; anything else reports against the observed status.
		current, findErr := uc.findExisting(ctx, assessmentID)
		if findErr != nil {
			return nil, findErr
		}
		if current.Status == models.AssessmentStatusInProgress {
			return current, nil
		}
		return nil, uc.transitionError(requestID, assessmentID, guardTransition(current.Status, models.AssessmentStatusInProgress))
	}
	return assessment, nil
}

// SubmitResponses merges the submitted answers into the stored response set.
// Items absent from the request are left untouched, so partial autosaves from
// a remote patient never erase earlier answers.
func (uc *assessmentUsecase) SubmitResponses(ctx context.Context, assessmentID string, request *requests.SubmitResponses) (*models.Assessment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("assessmentUsecase.SubmitResponses called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
		zap.Int(constvars.LoggingItemCountKey, len(request.Responses)),
	)

	assessment, err := uc.findExisting(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment.Status.Terminal() {
		return nil, exceptions.ErrAssessmentFinalized(fmt.Errorf("%w: %s", ErrFinalized, assessment.Status))
	}

	merged := make(map[string]models.ItemResponse, len(request.Responses))
	for key, input := range request.Responses {
		merged[key] = models.ItemResponse{Value: input.Value, Text: input.Text}
	}

	allowed := []models.AssessmentStatus{models.AssessmentStatusPending, models.AssessmentStatusInProgress}
	matched, err := uc.AssessmentRepository.MergeResponses(ctx, assessmentID, merged, allowed)
	if err != nil {
		uc.Log.Error("assessmentUsecase.SubmitResponses error merging responses",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if !matched {
		// The status filter rejected the write: finalized underneath us.
		return nil, exceptions.ErrAssessmentFinalized(ErrFinalized)
	}

	updated, err := uc.findExisting(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	// A partial submit gets a progress snapshot in the response. It is never
	// persisted; stored scores are written by Complete alone.
	if request.Partial {
		if template, ok := uc.TemplateStore.Get(updated.TemplateID); ok {
			snapshot, scoreErr := scoring.Score(template, updated.Responses, true)
			if scoreErr != nil {
				uc.Log.Warn("assessmentUsecase.SubmitResponses error scoring partial snapshot",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
					zap.Error(scoreErr),
				)
			} else {
				updated.Scores = snapshot
			}
		}
	}
	return updated, nil
}

// Complete finalizes the assessment: full scoring, interpretation, report
// generation, completion event. A distributed lock plus a status-guarded write
// guarantee at most one caller wins when two finalize concurrently.
func (uc *assessmentUsecase) Complete(ctx context.Context, assessmentID string, owner models.OwnerContext) (*models.Assessment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("assessmentUsecase.Complete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	lockKey := fmt.Sprintf(constvars.RedisKeyFinalizeLockFormat, assessmentID)
	acquired, lockValue, err := uc.LockerService.TryLock(ctx, lockKey, finalizeLockExpiration)
	if err != nil {
		return nil, err
	}
	if !acquired {
		uc.Log.Warn("assessmentUsecase.Complete finalize lock held elsewhere",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
		)
		return nil, exceptions.ErrAssessmentContention(nil, assessmentID)
	}
	defer func() {
		if unlockErr := uc.LockerService.Unlock(context.WithoutCancel(ctx), lockKey, lockValue); unlockErr != nil {
			uc.Log.Warn("assessmentUsecase.Complete error releasing finalize lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(unlockErr),
			)
		}
	}()

	assessment, err := uc.findExisting(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if err := guardTransition(assessment.Status, models.AssessmentStatusCompleted); err != nil {
		return nil, uc.transitionError(requestID, assessmentID, err)
	}

	template, ok := uc.TemplateStore.Get(assessment.TemplateID)
	if !ok {
		return nil, exceptions.ErrTemplateUnknown(fmt.Errorf("%w: %s", ErrUnknownTemplate, assessment.TemplateID), assessment.TemplateID)
	}

	scores, err := scoring.Score(template, assessment.Responses, false)
	if err != nil {
		var incomplete *scoring.IncompleteResponsesError
		if errors.As(err, &incomplete) {
			uc.Log.Warn("assessmentUsecase.Complete responses incomplete",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
				zap.Ints(constvars.LoggingMissingItemsKey, incomplete.MissingItems),
			)
			return nil, exceptions.ErrAssessmentIncomplete(err)
		}
		return nil, exceptions.ErrClientCustomMessage(err)
	}
	interpreted := interpretation.Interpret(template, scores)

	now := time.Now().UTC()
	assessment.Status = models.AssessmentStatusCompleted
	assessment.Scores = scores
	assessment.Interpretation = interpreted
	assessment.CompletedAt = &now
	assessment.UpdatedAt = now
	if len(owner.ActorID) > 0 || len(owner.ClinicID) > 0 {
		assessment.Owner = owner
	}

	// Render the report first so the object name lands in the same guarded
	// write. A report failure is logged and completion proceeds without it.
	if uc.ReportService != nil {
		objectName, reportErr := uc.ReportService.GenerateAndStore(ctx, template, assessment)
		if reportErr != nil {
			uc.Log.Error("assessmentUsecase.Complete error generating report",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
				zap.Error(reportErr),
			)
		} else {
			assessment.ReportObjectName = objectName
		}
	}

	matched, err := uc.AssessmentRepository.UpdateGuarded(ctx, assessment, models.AssessmentStatusInProgress)
	if err != nil {
		uc.Log.Error("assessmentUsecase.Complete error updating assessment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if !matched {
		return uc.resolveGuardLoss(ctx, requestID, assessmentID, models.AssessmentStatusCompleted)
	}

	uc.publishEvent(ctx, requestID, constvars.EventAssessmentCompleted, assessment)

	uc.Log.Info("assessmentUsecase.Complete succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
		zap.Int(constvars.LoggingTotalScoreKey, scores.Total),
	)
	return assessment, nil
}

func (uc *assessmentUsecase) Cancel(ctx context.Context, assessmentID, reason string) (*models.Assessment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("assessmentUsecase.Cancel called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	assessment, err := uc.findExisting(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if err := guardTransition(assessment.Status, models.AssessmentStatusCancelled); err != nil {
		return nil, uc.transitionError(requestID, assessmentID, err)
	}

	previous := assessment.Status
	now := time.Now().UTC()
	assessment.Status = models.AssessmentStatusCancelled
	assessment.CancelReason = reason
	assessment.UpdatedAt = now

	matched, err := uc.AssessmentRepository.UpdateGuarded(ctx, assessment, previous)
	if err != nil {
		uc.Log.Error("assessmentUsecase.Cancel error updating assessment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if !matched {
		return uc.resolveGuardLoss(ctx, requestID, assessmentID, models.AssessmentStatusCancelled)
	}

	uc.publishEvent(ctx, requestID, constvars.EventAssessmentCancelled, assessment)
	return assessment, nil
}

func (uc *assessmentUsecase) FindByID(ctx context.Context, assessmentID string) (*models.Assessment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("assessmentUsecase.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)
	return uc.findExisting(ctx, assessmentID)
}

func (uc *assessmentUsecase) ReportURL(ctx context.Context, assessmentID string) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("assessmentUsecase.ReportURL called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	assessment, err := uc.findExisting(ctx, assessmentID)
	if err != nil {
		return "", err
	}
	if assessment.ReportObjectName == "" {
		return "", exceptions.ErrReportNotReady(nil, assessmentID)
	}

	url, err := uc.Storage.PresignedURL(ctx, assessment.ReportObjectName, 15*time.Minute)
	if err != nil {
		uc.Log.Error("assessmentUsecase.ReportURL error presigning report",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingObjectNameKey, assessment.ReportObjectName),
			zap.Error(err),
		)
		return "", err
	}
	return url, nil
}

func (uc *assessmentUsecase) findExisting(ctx context.Context, assessmentID string) (*models.Assessment, error) {
	assessment, err := uc.AssessmentRepository.FindByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, exceptions.ErrAssessmentNotFound(nil, assessmentID)
	}
	return assessment, nil
}

func (uc *assessmentUsecase) transitionError(requestID, assessmentID string, err error) error {
	uc.Log.Warn("assessmentUsecase transition rejected",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
		zap.Error(err),
	)
	if errors.Is(err, ErrFinalized) {
		return exceptions.ErrAssessmentFinalized(err)
	}
	return exceptions.ErrAssessmentInvalidTransition(err)
}

// resolveGuardLoss re-reads after a guarded write matched nothing and maps the
// observed status to the right conflict error.
func (uc *assessmentUsecase) resolveGuardLoss(ctx context.Context, requestID, assessmentID string, attempted models.AssessmentStatus) (*models.Assessment, error) {
	current, err := uc.findExisting(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	uc.Log.Warn("assessmentUsecase guarded update lost the race",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
		zap.String(constvars.LoggingFromStatusKey, string(current.Status)),
		zap.String(constvars.LoggingToStatusKey, string(attempted)),
	)
	return nil, uc.transitionError(requestID, assessmentID, guardTransition(current.Status, attempted))
}

func (uc *assessmentUsecase) publishEvent(ctx context.Context, requestID, eventType string, assessment *models.Assessment) {
	if uc.EventPublisher == nil {
		return
	}

	event := contracts.AssessmentEvent{
		Type:         eventType,
		AssessmentID: assessment.ID,
		TemplateID:   assessment.TemplateID,
		PatientRef:   assessment.PatientRef,
		OccurredAt:   time.Now().UTC(),
	}
	if assessment.Scores != nil {
		total := assessment.Scores.Total
		event.TotalScore = &total
	}
	if assessment.Interpretation != nil {
		if band, ok := assessment.Interpretation.TotalBand(); ok {
			event.Severity = band.Severity
		}
	}

	if err := uc.EventPublisher.Publish(ctx, event); err != nil {
		// Event delivery is best effort; the state transition already
		// committed.
		uc.Log.Error("assessmentUsecase error publishing event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventTypeKey, eventType),
			zap.String(constvars.LoggingAssessmentIDKey, assessment.ID),
			zap.Error(err),
		)
	}
}
