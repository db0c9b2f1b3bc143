package remoteaccess

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"mindhub-service/internal/app/models"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeRedisRepository struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeRedisRepository() *fakeRedisRepository {
	return &fakeRedisRepository{values: map[string]string{}}
}

func (f *fakeRedisRepository) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case string:
		f.values[key] = v
	case []byte:
		f.values[key] = string(v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		f.values[key] = string(raw)
	}
	return nil
}

func (f *fakeRedisRepository) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key], nil
}

func (f *fakeRedisRepository) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	return nil
}

func (f *fakeRedisRepository) TrySetNX(_ context.Context, key string, value interface{}, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.values[key]; taken {
		return false, nil
	}
	f.values[key] = fmt.Sprint(value)
	return true, nil
}

func (f *fakeRedisRepository) Expire(context.Context, string, time.Duration) error { return nil }

type passLocker struct{}

func (passLocker) TryLock(context.Context, string, time.Duration) (bool, string, error) {
	return true, "owner", nil
}

func (passLocker) Unlock(context.Context, string, string) error { return nil }

func newTokenFixture() (*remoteAccessUsecase, *fakeRedisRepository) {
	redis := newFakeRedisRepository()
	usecase := &remoteAccessUsecase{
		RedisRepository: redis,
		LockerService:   passLocker{},
		Log:             zap.NewNop(),
	}
	return usecase, redis
}

func statusCode(t *testing.T, err error) int {
	t.Helper()
	customErr, ok := err.(*exceptions.CustomError)
	assert.True(t, ok, "expected *exceptions.CustomError, got %T", err)
	if !ok {
		return 0
	}
	return customErr.StatusCode
}

func TestRemoteAccessUsecase_IssueToken(t *testing.T) {
	t.Run("issues an active token and indexes it", func(t *testing.T) {
		usecase, redis := newTokenFixture()

		token, err := usecase.IssueToken(context.Background(), "asm-1", "patient-1", time.Hour)

		assert.NoError(t, err)
		assert.NotEmpty(t, token.Token)
		assert.Equal(t, models.RemoteTokenStatusActive, token.Status)
		assert.Equal(t, "asm-1", token.AssessmentID)
		assert.True(t, token.ExpiresAt.After(token.IssuedAt))

		indexed, _ := redis.Get(context.Background(), fmt.Sprintf(constvars.RedisKeyAssessmentTokenIndexFormat, "asm-1"))
		assert.Equal(t, token.Token, indexed)
	})

	t.Run("a new token invalidates its predecessor", func(t *testing.T) {
		usecase, _ := newTokenFixture()

		first, err := usecase.IssueToken(context.Background(), "asm-1", "patient-1", time.Hour)
		assert.NoError(t, err)
		second, err := usecase.IssueToken(context.Background(), "asm-1", "patient-1", time.Hour)
		assert.NoError(t, err)
		assert.NotEqual(t, first.Token, second.Token)

		_, err = usecase.Validate(context.Background(), first.Token)
		assert.Equal(t, constvars.StatusNotFound, statusCode(t, err))

		validated, err := usecase.Validate(context.Background(), second.Token)
		assert.NoError(t, err)
		assert.Equal(t, second.ID, validated.ID)
	})
}

func TestRemoteAccessUsecase_Validate(t *testing.T) {
	t.Run("unknown token is not found", func(t *testing.T) {
		usecase, _ := newTokenFixture()

		_, err := usecase.Validate(context.Background(), "never-issued")

		assert.Equal(t, constvars.StatusNotFound, statusCode(t, err))
	})

	t.Run("stored expiry rejects even when the key survived", func(t *testing.T) {
		usecase, redis := newTokenFixture()
		stale := &models.RemoteAccessToken{
			ID:           "tok-1",
			AssessmentID: "asm-1",
			Token:        "stale",
			Status:       models.RemoteTokenStatusActive,
			IssuedAt:     time.Now().UTC().Add(-2 * time.Hour),
			ExpiresAt:    time.Now().UTC().Add(-time.Hour),
		}
		payload, err := json.Marshal(stale)
		assert.NoError(t, err)
		assert.NoError(t, redis.Set(context.Background(), fmt.Sprintf(constvars.RedisKeyRemoteTokenFormat, "stale"), payload, time.Hour))

		_, err = usecase.Validate(context.Background(), "stale")

		assert.Equal(t, constvars.StatusGone, statusCode(t, err))
	})

	t.Run("validate has no side effects", func(t *testing.T) {
		usecase, _ := newTokenFixture()
		token, err := usecase.IssueToken(context.Background(), "asm-1", "patient-1", time.Hour)
		assert.NoError(t, err)

		for i := 0; i < 3; i++ {
			validated, err := usecase.Validate(context.Background(), token.Token)
			assert.NoError(t, err)
			assert.Equal(t, models.RemoteTokenStatusActive, validated.Status)
		}
	})
}

func TestRemoteAccessUsecase_Consume(t *testing.T) {
	t.Run("consumed token reads back as already used", func(t *testing.T) {
		usecase, redis := newTokenFixture()
		token, err := usecase.IssueToken(context.Background(), "asm-1", "patient-1", time.Hour)
		assert.NoError(t, err)

		assert.NoError(t, usecase.Consume(context.Background(), token.Token))

		_, err = usecase.Validate(context.Background(), token.Token)
		assert.Equal(t, constvars.StatusGone, statusCode(t, err))

		err = usecase.Consume(context.Background(), token.Token)
		assert.Equal(t, constvars.StatusGone, statusCode(t, err))

		indexed, _ := redis.Get(context.Background(), fmt.Sprintf(constvars.RedisKeyAssessmentTokenIndexFormat, "asm-1"))
		assert.Empty(t, indexed, "consume must clear the active-token index")
	})

	t.Run("consuming an unknown token is not found", func(t *testing.T) {
		usecase, _ := newTokenFixture()

		err := usecase.Consume(context.Background(), "never-issued")

		assert.Equal(t, constvars.StatusNotFound, statusCode(t, err))
	})
}
