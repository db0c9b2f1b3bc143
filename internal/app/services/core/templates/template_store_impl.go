package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// catalog is the immutable snapshot the store serves. Reloads build a fresh
// catalog and swap the pointer, so concurrent readers never need a lock.
type catalog struct {
	byID    map[string]*models.ScaleTemplate
	ordered []*models.ScaleTemplate
}

type templateStore struct {
	catalog atomic.Pointer[catalog]
	Log     *zap.Logger
}

var (
	templateStoreInstance contracts.TemplateStore
	onceTemplateStore     sync.Once
)

func NewTemplateStore(logger *zap.Logger) contracts.TemplateStore {
	onceTemplateStore.Do(func() {
		instance := &templateStore{Log: logger}
		instance.catalog.Store(&catalog{byID: map[string]*models.ScaleTemplate{}})
		templateStoreInstance = instance
	})
	return templateStoreInstance
}

func (s *templateStore) LoadAll(sourceDir string) ([]*models.ScaleTemplate, []contracts.TemplateLoadError, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, nil, fmt.Errorf("read template directory %s: %w", sourceDir, err)
	}

	next := &catalog{byID: make(map[string]*models.ScaleTemplate)}
	var loadErrors []contracts.TemplateLoadError

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(sourceDir, entry.Name())

		template, reasons := s.loadOne(path)
		if len(reasons) > 0 {
			loadErrors = append(loadErrors, contracts.TemplateLoadError{File: entry.Name(), Reasons: reasons})
			continue
		}
		if _, exists := next.byID[template.ID]; exists {
			loadErrors = append(loadErrors, contracts.TemplateLoadError{
				File:    entry.Name(),
				Reasons: []string{fmt.Sprintf("duplicate template id %q", template.ID)},
			})
			continue
		}
		next.byID[template.ID] = template
		next.ordered = append(next.ordered, template)
	}

	s.catalog.Store(next)
	s.Log.Info("templateStore.LoadAll catalog swapped",
		zap.Int(constvars.LoggingTemplateCountKey, len(next.ordered)),
		zap.Int(constvars.LoggingErrorCountKey, len(loadErrors)),
	)
	return next.ordered, loadErrors, nil
}

func (s *templateStore) loadOne(path string) (*models.ScaleTemplate, []string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, []string{fmt.Sprintf("read file: %v", err)}
	}

	template := new(models.ScaleTemplate)
	if err := json.Unmarshal(raw, template); err != nil {
		return nil, []string{fmt.Sprintf("parse JSON: %v", err)}
	}

	issues, warnings := validateStructure(template)
	for _, warning := range warnings {
		s.Log.Warn("templateStore.loadOne authoring warning",
			zap.String(constvars.LoggingTemplateIDKey, template.ID),
			zap.String(constvars.LoggingWarningKey, warning),
		)
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return template, nil
}

func (s *templateStore) Get(templateID string) (*models.ScaleTemplate, bool) {
	template, ok := s.catalog.Load().byID[templateID]
	return template, ok
}

func (s *templateStore) All() []*models.ScaleTemplate {
	return s.catalog.Load().ordered
}

func (s *templateStore) ValidateTemplate(templateID string) (bool, []string) {
	template, ok := s.Get(templateID)
	if !ok {
		return false, []string{fmt.Sprintf("template %q not in catalog", templateID)}
	}

	issues, warnings := validateStructure(template)
	report := make([]string, 0, len(issues)+len(warnings))
	report = append(report, issues...)
	for _, warning := range warnings {
		report = append(report, "warning: "+warning)
	}
	return len(issues) == 0, report
}
