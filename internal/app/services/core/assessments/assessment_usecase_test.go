package assessments

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeTemplateStore struct {
	templates map[string]*models.ScaleTemplate
}

func (f *fakeTemplateStore) LoadAll(string) ([]*models.ScaleTemplate, []contracts.TemplateLoadError, error) {
	return nil, nil, nil
}

func (f *fakeTemplateStore) Get(templateID string) (*models.ScaleTemplate, bool) {
	template, ok := f.templates[templateID]
	return template, ok
}

func (f *fakeTemplateStore) All() []*models.ScaleTemplate { return nil }

func (f *fakeTemplateStore) ValidateTemplate(string) (bool, []string) { return true, nil }

type fakeAssessmentRepository struct {
	mu   sync.Mutex
	byID map[string]models.Assessment

	// beforeUpdateGuarded runs ahead of the guard check so tests can slip a
	// concurrent transition in between the usecase's read and its CAS write.
	beforeUpdateGuarded func()
}

func (f *fakeAssessmentRepository) setStatus(assessmentID string, status models.AssessmentStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.byID[assessmentID]
	stored.Status = status
	f.byID[assessmentID] = stored
}

func newFakeAssessmentRepository() *fakeAssessmentRepository {
	return &fakeAssessmentRepository{byID: map[string]models.Assessment{}}
}

func (f *fakeAssessmentRepository) Insert(_ context.Context, assessment *models.Assessment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[assessment.ID] = *assessment
	return nil
}

func (f *fakeAssessmentRepository) FindByID(_ context.Context, assessmentID string) (*models.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[assessmentID]
	if !ok {
		return nil, nil
	}
	found := stored
	return &found, nil
}

func (f *fakeAssessmentRepository) UpdateGuarded(_ context.Context, assessment *models.Assessment, expected models.AssessmentStatus) (bool, error) {
	if f.beforeUpdateGuarded != nil {
		f.beforeUpdateGuarded()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[assessment.ID]
	if !ok || stored.Status != expected {
		return false, nil
	}
	f.byID[assessment.ID] = *assessment
	return true, nil
}

func (f *fakeAssessmentRepository) MergeResponses(_ context.Context, assessmentID string, responses map[string]models.ItemResponse, allowed []models.AssessmentStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[assessmentID]
	if !ok {
		return false, nil
	}
	permitted := false
	for _, status := range allowed {
		if stored.Status == status {
			permitted = true
		}
	}
	if !permitted {
		return false, nil
	}
	if stored.Responses == nil {
		stored.Responses = map[string]models.ItemResponse{}
	}
	for key, response := range responses {
		stored.Responses[key] = response
	}
	stored.UpdatedAt = time.Now().UTC()
	f.byID[assessmentID] = stored
	return true, nil
}

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]string{}}
}

func (f *fakeLocker) TryLock(_ context.Context, key string, _ time.Duration) (bool, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.held[key]; taken {
		return false, "", nil
	}
	f.held[key] = "owner"
	return true, "owner", nil
}

func (f *fakeLocker) Unlock(_ context.Context, key, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.held, key)
	return nil
}

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []contracts.AssessmentEvent
}

func (f *fakeEventPublisher) Publish(_ context.Context, event contracts.AssessmentEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

type fakeReportService struct {
	fail bool
}

func (f *fakeReportService) GenerateAndStore(_ context.Context, _ *models.ScaleTemplate, assessment *models.Assessment) (string, error) {
	if f.fail {
		return "", assert.AnError
	}
	return "reports/" + assessment.ID + ".pdf", nil
}

type fakeStorage struct{}

func (fakeStorage) UploadObject(context.Context, string, string, []byte) error { return nil }

func (fakeStorage) PresignedURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	return "https://storage.local/" + objectName, nil
}

// newCheckTemplate is a three-item instrument with a 0-1 response group, so
// achievable totals run 0..3 across two bands.
func newCheckTemplate() *models.ScaleTemplate {
	return &models.ScaleTemplate{
		ID:           "check-1.0",
		Abbreviation: "CHK",
		Name:         "Check Scale",
		TotalItems:   3,
		Sections: []models.Section{{Items: []models.Item{
			{Number: 1, ResponseGroupID: "yn"},
			{Number: 2, ResponseGroupID: "yn"},
			{Number: 3, ResponseGroupID: "yn"},
		}}},
		ResponseGroups: map[string][]models.ResponseOption{
			"yn": {
				{Value: 0, Label: "No", Score: 0},
				{Value: 1, Label: "Yes", Score: 1},
			},
		},
		ScoreRange: models.ScoreRange{Min: 0, Max: 3},
		InterpretationRules: []models.InterpretationRule{
			{Subscale: "total", MinScore: 0, MaxScore: 1, Label: "Low", Severity: "low"},
			{Subscale: "total", MinScore: 2, MaxScore: 3, Label: "High", Severity: "high"},
		},
	}
}

type usecaseFixture struct {
	usecase   *assessmentUsecase
	repo      *fakeAssessmentRepository
	locker    *fakeLocker
	publisher *fakeEventPublisher
	reports   *fakeReportService
}

func newUsecaseFixture() *usecaseFixture {
	repo := newFakeAssessmentRepository()
	locker := newFakeLocker()
	publisher := &fakeEventPublisher{}
	reports := &fakeReportService{}
	usecase := &assessmentUsecase{
		AssessmentRepository: repo,
		TemplateStore:        &fakeTemplateStore{templates: map[string]*models.ScaleTemplate{"check-1.0": newCheckTemplate()}},
		LockerService:        locker,
		EventPublisher:       publisher,
		ReportService:        reports,
		Storage:              fakeStorage{},
		Log:                  zap.NewNop(),
	}
	return &usecaseFixture{usecase: usecase, repo: repo, locker: locker, publisher: publisher, reports: reports}
}

func (f *usecaseFixture) seed(t *testing.T, status models.AssessmentStatus, responses map[string]models.ItemResponse) *models.Assessment {
	t.Helper()
	assessment := &models.Assessment{
		ID:         "asm-1",
		TemplateID: "check-1.0",
		PatientRef: "patient-1",
		Mode:       "self",
		Status:     status,
		Responses:  responses,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if status != models.AssessmentStatusPending {
		started := time.Now().UTC().Add(-time.Minute)
		assessment.StartedAt = &started
	}
	assert.NoError(t, f.repo.Insert(context.Background(), assessment))
	return assessment
}

func answered(value int) map[string]models.ItemResponse {
	v := value
	return map[string]models.ItemResponse{
		"1": {Value: &v},
		"2": {Value: &v},
		"3": {Value: &v},
	}
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

func TestGuardTransition(t *testing.T) {
	cases := []struct {
		name string
		from models.AssessmentStatus
		to   models.AssessmentStatus
		want error
	}{
		{"pending starts", models.AssessmentStatusPending, models.AssessmentStatusInProgress, nil},
		{"in_progress completes", models.AssessmentStatusInProgress, models.AssessmentStatusCompleted, nil},
		{"pending cancels", models.AssessmentStatusPending, models.AssessmentStatusCancelled, nil},
		{"in_progress cancels", models.AssessmentStatusInProgress, models.AssessmentStatusCancelled, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, guardTransition(tc.from, tc.to))
		})
	}

	t.Run("pending cannot complete directly", func(t *testing.T) {
		err := guardTransition(models.AssessmentStatusPending, models.AssessmentStatusCompleted)

		var invalid *InvalidTransitionError
		assert.ErrorAs(t, err, &invalid)
		assert.Equal(t, models.AssessmentStatusPending, invalid.From)
	})

	t.Run("terminal statuses reject everything", func(t *testing.T) {
		assert.ErrorIs(t, guardTransition(models.AssessmentStatusCompleted, models.AssessmentStatusCancelled), ErrFinalized)
		assert.ErrorIs(t, guardTransition(models.AssessmentStatusCancelled, models.AssessmentStatusInProgress), ErrFinalized)
	})
}

func TestAssessmentUsecase_Create(t *testing.T) {
	t.Run("creates a pending assessment", func(t *testing.T) {
		fixture := newUsecaseFixture()

		created, err := fixture.usecase.Create(context.Background(), &requests.CreateAssessment{
			TemplateID:       "check-1.0",
			PatientRef:       "patient-1",
			AdministratorRef: "practitioner-1",
			Mode:             "assisted",
		}, models.OwnerContext{ClinicID: "clinic-1"})

		assert.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, models.AssessmentStatusPending, created.Status)
		assert.Equal(t, "clinic-1", created.Owner.ClinicID)
		assert.NotNil(t, created.Responses)

		stored, err := fixture.repo.FindByID(context.Background(), created.ID)
		assert.NoError(t, err)
		assert.NotNil(t, stored)
	})

	t.Run("unknown template is a 404", func(t *testing.T) {
		fixture := newUsecaseFixture()

		_, err := fixture.usecase.Create(context.Background(), &requests.CreateAssessment{
			TemplateID: "nope-1.0",
			PatientRef: "patient-1",
			Mode:       "self",
		}, models.OwnerContext{})

		assert.Equal(t, constvars.StatusNotFound, statusCode(t, err))
	})
}

func TestAssessmentUsecase_Begin(t *testing.T) {
	t.Run("pending moves to in_progress and stamps StartedAt", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.seed(t, models.AssessmentStatusPending, nil)

		begun, err := fixture.usecase.Begin(context.Background(), "asm-1")

		assert.NoError(t, err)
		assert.Equal(t, models.AssessmentStatusInProgress, begun.Status)
		assert.NotNil(t, begun.StartedAt)
	})

	t.Run("begin is idempotent while in_progress", func(t *testing.T) {
		fixture := newUsecaseFixture()
		seeded := fixture.seed(t, models.AssessmentStatusInProgress, nil)

		begun, err := fixture.usecase.Begin(context.Background(), "asm-1")

		assert.NoError(t, err)
		assert.Equal(t, models.AssessmentStatusInProgress, begun.Status)
		assert.Equal(t, seeded.StartedAt.Unix(), begun.StartedAt.Unix())
	})

	t.Run("finalized assessment conflicts", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.seed(t, models.AssessmentStatusCompleted, nil)

		_, err := fixture.usecase.Begin(context.Background(), "asm-1")

		assert.Equal(t, constvars.StatusConflict, statusCode(t, err))
	})

	t.Run("losing the start race to another begin still succeeds", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.seed(t, models.AssessmentStatusPending, nil)
		fixture.repo.beforeUpdateGuarded = func() {
			fixture.repo.setStatus("asm-1", models.AssessmentStatusInProgress)
		}

		begun, err := fixture.usecase.Begin(context.Background(), "asm-1")

		assert.NoError(t, err)
		assert.Equal(t, models.AssessmentStatusInProgress, begun.Status)
	})

	t.Run("losing the start race to a cancel conflicts", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.seed(t, models.AssessmentStatusPending, nil)
		fixture.repo.beforeUpdateGuarded = func() {
			fixture.repo.setStatus("asm-1", models.AssessmentStatusCancelled)
		}

		_, err := fixture.usecase.Begin(context.Background(), "asm-1")

		assert.Equal(t, constvars.StatusConflict, statusCode(t, err))
	})

	t.Run("missing assessment is a 404", func(t *testing.T) {
		fixture := newUsecaseFixture()

		_, err := fixture.usecase.Begin(context.Background(), "ghost")

		assert.Equal(t, constvars.StatusNotFound, statusCode(t, err))
	})
}

func TestAssessmentUsecase_SubmitResponses(t *testing.T) {
	one := 1

	t.Run("submitted items merge over existing ones", func(t *testing.T) {
		fixture := newUsecaseFixture()
		zero := 0
		fixture.seed(t, models.AssessmentStatusInProgress, map[string]models.ItemResponse{
			"1": {Value: &zero},
			"2": {Value: &zero},
		})

		updated, err := fixture.usecase.SubmitResponses(context.Background(), "asm-1", &requests.SubmitResponses{
			Responses: map[string]requests.ItemResponseInput{
				"2": {Value: &one},
				"3": {Value: &one, Text: "noted"},
			},
		})

		assert.NoError(t, err)
		assert.Len(t, updated.Responses, 3)
		assert.Equal(t, 0, *updated.Responses["1"].Value)
		assert.Equal(t, 1, *updated.Responses["2"].Value)
		assert.Equal(t, "noted", updated.Responses["3"].Text)
	})

	t.Run("partial submit returns a progress snapshot without persisting it", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.seed(t, models.AssessmentStatusInProgress, nil)

		updated, err := fixture.usecase.SubmitResponses(context.Background(), "asm-1", &requests.SubmitResponses{
			Responses: map[string]requests.ItemResponseInput{
				"1": {Value: &one},
				"2": {Value: &one},
			},
			Partial: true,
		})

		assert.NoError(t, err)
		assert.NotNil(t, updated.Scores)
		assert.True(t, updated.Scores.Partial)
		assert.Equal(t, 2, updated.Scores.Total)
		assert.Equal(t, []int{3}, updated.Scores.MissingItems)

		stored, findErr := fixture.repo.FindByID(context.Background(), "asm-1")
		assert.NoError(t, findErr)
		assert.Nil(t, stored.Scores)
	})

	t.Run("full submit carries no snapshot", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.seed(t, models.AssessmentStatusInProgress, nil)

		updated, err := fixture.usecase.SubmitResponses(context.Background(), "asm-1", &requests.SubmitResponses{
			Responses: map[string]requests.ItemResponseInput{"1": {Value: &one}},
		})

		assert.NoError(t, err)
		assert.Nil(t, updated.Scores)
	})

	t.Run("finalized assessment rejects submissions", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.seed(t, models.AssessmentStatusCancelled, nil)

		_, err := fixture.usecase.SubmitResponses(context.Background(), "asm-1", &requests.SubmitResponses{
			Responses: map[string]requests.ItemResponseInput{"1": {Value: &one}},
		})

		assert.Equal(t, constvars.StatusConflict, statusCode(t, err))
	})
}

func TestAssessmentUsecase_Complete(t *testing.T) {
	t.Run("scores, interprets, reports and publishes", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.seed(t, models.AssessmentStatusInProgress, answered(1))

		completed, err := fixture.usecase.Complete(context.Background(), "asm-1", models.OwnerContext{ActorID: "practitioner-1"})

		assert.NoError(t, err)
		assert.Equal(t, models.AssessmentStatusCompleted, completed.Status)
		assert.NotNil(t, completed.CompletedAt)
		assert.Equal(t, 3, completed.Scores.Total)
		band, ok := completed.Interpretation.TotalBand()
		assert.True(t, ok)
		assert.Equal(t, "High", band.Label)
		assert.Equal(t, "reports/asm-1.pdf", completed.ReportObjectName)

		assert.Len(t, fixture.publisher.events, 1)
		event := fixture.publisher.events[0]
		assert.Equal(t, constvars.EventAssessmentCompleted, event.Type)
		assert.Equal(t, 3, *event.TotalScore)
		assert.Equal(t, "high", event.Severity)
	})

	t.Run("missing answers fail with 422 and nothing persists", func(t *testing.T) {
		fixture := newUsecaseFixture()
		one := 1
		fixture.seed(t, models.AssessmentStatusInProgress, map[string]models.ItemResponse{"1": {Value: &one}})

		_, err := fixture.usecase.Complete(context.Background(), "asm-1", models.OwnerContext{})

		assert.Equal(t, constvars.StatusUnprocessableEntity, statusCode(t, err))
		stored, findErr := fixture.repo.FindByID(context.Background(), "asm-1")
		assert.NoError(t, findErr)
		assert.Equal(t, models.AssessmentStatusInProgress, stored.Status)
		assert.Empty(t, fixture.publisher.events)
	})

	t.Run("pending assessment cannot complete", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.seed(t, models.AssessmentStatusPending, answered(1))

		_, err := fixture.usecase.Complete(context.Background(), "asm-1", models.OwnerContext{})

		assert.Equal(t, constvars.StatusConflict, statusCode(t, err))
	})

	t.Run("second completion conflicts", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.seed(t, models.AssessmentStatusInProgress, answered(0))

		_, err := fixture.usecase.Complete(context.Background(), "asm-1", models.OwnerContext{})
		assert.NoError(t, err)

		_, err = fixture.usecase.Complete(context.Background(), "asm-1", models.OwnerContext{})
		assert.Equal(t, constvars.StatusConflict, statusCode(t, err))
	})

	t.Run("held finalize lock short-circuits with a conflict", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.seed(t, models.AssessmentStatusInProgress, answered(1))
		fixture.locker.held[fmt.Sprintf(constvars.RedisKeyFinalizeLockFormat, "asm-1")] = "someone-else"

		_, err := fixture.usecase.Complete(context.Background(), "asm-1", models.OwnerContext{})

		assert.Equal(t, constvars.StatusConflict, statusCode(t, err))
		assert.Empty(t, fixture.publisher.events)
	})

	t.Run("report failure does not block completion", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.reports.fail = true
		fixture.seed(t, models.AssessmentStatusInProgress, answered(1))

		completed, err := fixture.usecase.Complete(context.Background(), "asm-1", models.OwnerContext{})

		assert.NoError(t, err)
		assert.Equal(t, models.AssessmentStatusCompleted, completed.Status)
		assert.Empty(t, completed.ReportObjectName)
	})
}

func TestAssessmentUsecase_Cancel(t *testing.T) {
	t.Run("in_progress cancels with a reason and publishes", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.seed(t, models.AssessmentStatusInProgress, nil)

		cancelled, err := fixture.usecase.Cancel(context.Background(), "asm-1", "patient withdrew")

		assert.NoError(t, err)
		assert.Equal(t, models.AssessmentStatusCancelled, cancelled.Status)
		assert.Equal(t, "patient withdrew", cancelled.CancelReason)
		assert.Len(t, fixture.publisher.events, 1)
		assert.Equal(t, constvars.EventAssessmentCancelled, fixture.publisher.events[0].Type)
	})

	t.Run("completed assessment cannot cancel", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.seed(t, models.AssessmentStatusCompleted, nil)

		_, err := fixture.usecase.Cancel(context.Background(), "asm-1", "late change of mind")

		assert.Equal(t, constvars.StatusConflict, statusCode(t, err))
	})
}

func TestAssessmentUsecase_ReportURL(t *testing.T) {
	t.Run("presigns the stored object", func(t *testing.T) {
		fixture := newUsecaseFixture()
		seeded := fixture.seed(t, models.AssessmentStatusCompleted, nil)
		seeded.ReportObjectName = "reports/asm-1.pdf"
		assert.NoError(t, fixture.repo.Insert(context.Background(), seeded))

		url, err := fixture.usecase.ReportURL(context.Background(), "asm-1")

		assert.NoError(t, err)
		assert.Equal(t, "https://storage.local/reports/asm-1.pdf", url)
	})

	t.Run("no report yet is a 404", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.seed(t, models.AssessmentStatusCompleted, nil)

		_, err := fixture.usecase.ReportURL(context.Background(), "asm-1")

		assert.Equal(t, constvars.StatusNotFound, statusCode(t, err))
	})
}
