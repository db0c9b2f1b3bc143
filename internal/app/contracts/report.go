package contracts

import (
	"context"
	"mindhub-service/internal/app/models"
)

// ReportService renders the clinical result document for a completed
// assessment and stores it, returning the storage object name.
type ReportService interface {
	GenerateAndStore(ctx context.Context, template *models.ScaleTemplate, assessment *models.Assessment) (string, error)
}
