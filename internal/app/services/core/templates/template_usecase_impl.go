package templates

import (
	"context"
	"sync"

	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/responses"
	"mindhub-service/internal/pkg/exceptions"

	"go.uber.org/zap"
)

type templateUsecase struct {
	TemplateStore contracts.TemplateStore
	Log           *zap.Logger
}

var (
	templateUsecaseInstance contracts.TemplateUsecase
	onceTemplateUsecase     sync.Once
)

func NewTemplateUsecase(templateStore contracts.TemplateStore, logger *zap.Logger) contracts.TemplateUsecase {
	onceTemplateUsecase.Do(func() {
		instance := &templateUsecase{
			TemplateStore: templateStore,
			Log:           logger,
		}
		templateUsecaseInstance = instance
	})
	return templateUsecaseInstance
}

func (uc *templateUsecase) FindAll(ctx context.Context) []responses.TemplateSummary {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("templateUsecase.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	all := uc.TemplateStore.All()
	summaries := make([]responses.TemplateSummary, 0, len(all))
	for _, template := range all {
		summaries = append(summaries, responses.TemplateSummary{
			ID:                       template.ID,
			Abbreviation:             template.Abbreviation,
			Name:                     template.Name,
			Category:                 template.Category,
			Language:                 template.Language,
			TotalItems:               template.TotalItems,
			EstimatedDurationMinutes: template.EstimatedDurationMinutes,
		})
	}

	uc.Log.Info("templateUsecase.FindAll succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingTemplateCountKey, len(summaries)),
	)
	return summaries
}

func (uc *templateUsecase) FindByID(ctx context.Context, templateID string) (*models.ScaleTemplate, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("templateUsecase.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, templateID),
	)

	template, ok := uc.TemplateStore.Get(templateID)
	if !ok {
		uc.Log.Error("templateUsecase.FindByID template not in catalog",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTemplateIDKey, templateID),
		)
		return nil, exceptions.ErrTemplateUnknown(nil, templateID)
	}
	return template, nil
}

func (uc *templateUsecase) Reload(ctx context.Context, sourceDir string) (*responses.ReloadTemplatesResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("templateUsecase.Reload called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	loaded, loadErrors, err := uc.TemplateStore.LoadAll(sourceDir)
	if err != nil {
		uc.Log.Error("templateUsecase.Reload error loading templates",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrServerProcess(err)
	}

	result := &responses.ReloadTemplatesResult{Loaded: len(loaded)}
	for _, loadError := range loadErrors {
		result.Failed = append(result.Failed, responses.TemplateLoadReport{
			File:    loadError.File,
			Reasons: loadError.Reasons,
		})
	}
	return result, nil
}
