package contracts

import (
	"context"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/pkg/dto/responses"
)

// TemplateLoadError reports one definition file that failed validation during
// LoadAll. Loading is partial-failure tolerant; a malformed template never
// blocks the rest of the catalog.
type TemplateLoadError struct {
	File    string   `json:"file"`
	Reasons []string `json:"reasons"`
}

type TemplateUsecase interface {
	FindAll(ctx context.Context) []responses.TemplateSummary
	FindByID(ctx context.Context, templateID string) (*models.ScaleTemplate, error)
	Reload(ctx context.Context, sourceDir string) (*responses.ReloadTemplatesResult, error)
}

type TemplateStore interface {
	// LoadAll parses every *.json definition under sourceDir and swaps the
	// catalog atomically. The returned error covers the directory itself;
	// per-file failures come back as TemplateLoadErrors.
	LoadAll(sourceDir string) ([]*models.ScaleTemplate, []TemplateLoadError, error)
	Get(templateID string) (*models.ScaleTemplate, bool)
	All() []*models.ScaleTemplate
	// ValidateTemplate re-runs the structural checks for tooling/CI use.
	ValidateTemplate(templateID string) (bool, []string)
}
