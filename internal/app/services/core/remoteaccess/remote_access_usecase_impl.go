package remoteaccess

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tokenIssueLockExpiration = 5 * time.Second

type remoteAccessUsecase struct {
	RedisRepository contracts.RedisRepository
	LockerService   contracts.LockerService
	Log             *zap.Logger
}

var (
	remoteAccessUsecaseInstance contracts.RemoteAccessUsecase
	onceRemoteAccessUsecase     sync.Once
)

func NewRemoteAccessUsecase(redisRepository contracts.RedisRepository, lockerService contracts.LockerService, logger *zap.Logger) contracts.RemoteAccessUsecase {
	onceRemoteAccessUsecase.Do(func() {
		instance := &remoteAccessUsecase{
			RedisRepository: redisRepository,
			LockerService:   lockerService,
			Log:             logger,
		}
		remoteAccessUsecaseInstance = instance
	})
	return remoteAccessUsecaseInstance
}

// IssueToken mints a fresh opaque token for the assessment. The per-assessment
// index key points at the current active token; anything it referenced before
// is deleted so at most one token validates at a time.
func (uc *remoteAccessUsecase) IssueToken(ctx context.Context, assessmentID, patientRef string, ttl time.Duration) (*models.RemoteAccessToken, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("remoteAccessUsecase.IssueToken called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	lockKey := fmt.Sprintf(constvars.RedisKeyTokenIssueLockFormat, assessmentID)
	acquired, lockValue, err := uc.LockerService.TryLock(ctx, lockKey, tokenIssueLockExpiration)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, exceptions.ErrAssessmentContention(nil, assessmentID)
	}
	defer func() {
		if unlockErr := uc.LockerService.Unlock(context.WithoutCancel(ctx), lockKey, lockValue); unlockErr != nil {
			uc.Log.Warn("remoteAccessUsecase.IssueToken error releasing issue lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(unlockErr),
			)
		}
	}()

	indexKey := fmt.Sprintf(constvars.RedisKeyAssessmentTokenIndexFormat, assessmentID)
	previousToken, err := uc.RedisRepository.Get(ctx, indexKey)
	if err != nil {
		return nil, err
	}
	if previousToken != "" {
		if err := uc.RedisRepository.Delete(ctx, fmt.Sprintf(constvars.RedisKeyRemoteTokenFormat, previousToken)); err != nil {
			return nil, err
		}
		uc.Log.Info("remoteAccessUsecase.IssueToken invalidated previous token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
		)
	}

	opaque, err := utils.GenerateOpaqueToken()
	if err != nil {
		return nil, exceptions.ErrRemoteTokenIssue(err)
	}

	now := time.Now().UTC()
	token := &models.RemoteAccessToken{
		ID:           uuid.NewString(),
		AssessmentID: assessmentID,
		PatientRef:   patientRef,
		Token:        opaque,
		Status:       models.RemoteTokenStatusActive,
		IssuedAt:     now,
		ExpiresAt:    now.Add(ttl),
	}

	payload, err := json.Marshal(token)
	if err != nil {
		return nil, exceptions.ErrRemoteTokenIssue(err)
	}
	if err := uc.RedisRepository.Set(ctx, fmt.Sprintf(constvars.RedisKeyRemoteTokenFormat, opaque), payload, ttl); err != nil {
		return nil, err
	}
	if err := uc.RedisRepository.Set(ctx, indexKey, opaque, ttl); err != nil {
		return nil, err
	}

	uc.Log.Info("remoteAccessUsecase.IssueToken succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
		zap.String(constvars.LoggingTokenIDKey, token.ID),
	)
	return token, nil
}

func (uc *remoteAccessUsecase) Validate(ctx context.Context, token string) (*models.RemoteAccessToken, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	record, err := uc.fetch(ctx, token)
	if err != nil {
		return nil, err
	}
	if record.Status == models.RemoteTokenStatusConsumed {
		return nil, exceptions.ErrRemoteTokenConsumed(nil)
	}
	if record.Expired(time.Now().UTC()) {
		// The redis TTL normally reaps these; the stored timestamp is the
		// backstop when clocks and TTLs disagree.
		return nil, exceptions.ErrRemoteTokenExpired(nil)
	}

	uc.Log.Info("remoteAccessUsecase.Validate succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTokenIDKey, record.ID),
	)
	return record, nil
}

// Consume marks the token used while keeping the record readable until its
// TTL lapses, so a repeated submission gets "already used" instead of "not
// found".
func (uc *remoteAccessUsecase) Consume(ctx context.Context, token string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	record, err := uc.fetch(ctx, token)
	if err != nil {
		return err
	}
	if record.Status == models.RemoteTokenStatusConsumed {
		return exceptions.ErrRemoteTokenConsumed(nil)
	}
	if record.Expired(time.Now().UTC()) {
		return exceptions.ErrRemoteTokenExpired(nil)
	}

	record.Status = models.RemoteTokenStatusConsumed
	payload, err := json.Marshal(record)
	if err != nil {
		return exceptions.ErrRedisSet(err)
	}

	remaining := time.Until(record.ExpiresAt)
	if err := uc.RedisRepository.Set(ctx, fmt.Sprintf(constvars.RedisKeyRemoteTokenFormat, token), payload, remaining); err != nil {
		return err
	}
	if err := uc.RedisRepository.Delete(ctx, fmt.Sprintf(constvars.RedisKeyAssessmentTokenIndexFormat, record.AssessmentID)); err != nil {
		return err
	}

	uc.Log.Info("remoteAccessUsecase.Consume succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTokenIDKey, record.ID),
		zap.String(constvars.LoggingAssessmentIDKey, record.AssessmentID),
	)
	return nil
}

func (uc *remoteAccessUsecase) fetch(ctx context.Context, token string) (*models.RemoteAccessToken, error) {
	raw, err := uc.RedisRepository.Get(ctx, fmt.Sprintf(constvars.RedisKeyRemoteTokenFormat, token))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, exceptions.ErrRemoteTokenNotFound(nil)
	}

	record := new(models.RemoteAccessToken)
	if err := json.Unmarshal([]byte(raw), record); err != nil {
		return nil, exceptions.ErrRedisGet(err)
	}
	return record, nil
}
