// Package reports renders the clinical result document for a completed
// assessment and uploads it to object storage.
package reports

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"

	"github.com/signintech/gopdf"
	"go.uber.org/zap"
)

type reportService struct {
	Storage  contracts.Storage
	FontPath string
	Log      *zap.Logger
}

var (
	reportServiceInstance contracts.ReportService
	onceReportService     sync.Once
)

func NewReportService(storage contracts.Storage, fontPath string, logger *zap.Logger) contracts.ReportService {
	onceReportService.Do(func() {
		instance := &reportService{
			Storage:  storage,
			FontPath: fontPath,
			Log:      logger,
		}
		reportServiceInstance = instance
	})
	return reportServiceInstance
}

func (s *reportService) GenerateAndStore(ctx context.Context, template *models.ScaleTemplate, assessment *models.Assessment) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("reportService.GenerateAndStore called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessment.ID),
	)

	data, err := s.render(template, assessment)
	if err != nil {
		return "", exceptions.ErrPDFGenerate(err)
	}

	objectName := fmt.Sprintf(constvars.ReportObjectNameFormat, assessment.ID)
	if err := s.Storage.UploadObject(ctx, objectName, constvars.MIMEApplicationPDF, data); err != nil {
		return "", err
	}

	s.Log.Info("reportService.GenerateAndStore succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingObjectNameKey, objectName),
	)
	return objectName, nil
}

func (s *reportService) render(template *models.ScaleTemplate, assessment *models.Assessment) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := pdf.AddTTFFont("report", s.FontPath); err != nil {
		return nil, fmt.Errorf("load report font: %w", err)
	}

	if err := pdf.SetFont("report", "", 18); err != nil {
		return nil, err
	}
	pdf.Cell(nil, fmt.Sprintf("%s Assessment Report", template.Abbreviation))
	pdf.Br(28)

	if err := pdf.SetFont("report", "", 11); err != nil {
		return nil, err
	}
	pdf.Cell(nil, template.Name)
	pdf.Br(16)
	pdf.Cell(nil, fmt.Sprintf("Assessment: %s", assessment.ID))
	pdf.Br(14)
	pdf.Cell(nil, fmt.Sprintf("Patient: %s", assessment.PatientRef))
	pdf.Br(14)
	if assessment.CompletedAt != nil {
		pdf.Cell(nil, fmt.Sprintf("Completed: %s", assessment.CompletedAt.Format(time.RFC1123)))
		pdf.Br(14)
	}
	if seconds := assessment.DurationSeconds(); seconds > 0 {
		pdf.Cell(nil, fmt.Sprintf("Duration: %ds", seconds))
		pdf.Br(14)
	}
	pdf.Br(10)

	if assessment.Scores != nil {
		if err := pdf.SetFont("report", "", 14); err != nil {
			return nil, err
		}
		pdf.Cell(nil, "Scores")
		pdf.Br(16)
		if err := pdf.SetFont("report", "", 11); err != nil {
			return nil, err
		}
		pdf.Cell(nil, fmt.Sprintf("Total: %d (range %d-%d)", assessment.Scores.Total, template.ScoreRange.Min, template.ScoreRange.Max))
		pdf.Br(14)
		for name, score := range assessment.Scores.Subscales {
			pdf.Cell(nil, fmt.Sprintf("%s: %d", name, score))
			pdf.Br(14)
		}
		pdf.Br(10)
	}

	if assessment.Interpretation != nil {
		if err := pdf.SetFont("report", "", 14); err != nil {
			return nil, err
		}
		pdf.Cell(nil, "Interpretation")
		pdf.Br(16)
		if err := pdf.SetFont("report", "", 11); err != nil {
			return nil, err
		}
		for _, band := range assessment.Interpretation.Bands {
			line := fmt.Sprintf("%s: %s", band.Subscale, band.Label)
			if band.Severity != "" {
				line = fmt.Sprintf("%s (%s)", line, band.Severity)
			}
			lines, _ := pdf.SplitText(line, 500)
			for _, l := range lines {
				pdf.Cell(nil, l)
				pdf.Br(13)
			}
		}
		pdf.Br(10)
	}

	if len(template.Disclaimer) > 0 {
		if err := pdf.SetFont("report", "", 9); err != nil {
			return nil, err
		}
		lines, _ := pdf.SplitText(strings.TrimSpace(template.Disclaimer), 500)
		for _, l := range lines {
			pdf.Cell(nil, l)
			pdf.Br(11)
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
