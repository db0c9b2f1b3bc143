package templates

import (
	"os"
	"path/filepath"
	"testing"

	"mindhub-service/internal/app/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const goodTemplateJSON = `{
  "id": "mini-1.0",
  "abbreviation": "MINI",
  "name": "Mini Scale",
  "totalItems": 2,
  "sections": [{"items": [
    {"number": 1, "text": "a", "responseType": "single_choice", "responseGroupId": "yn"},
    {"number": 2, "text": "b", "responseType": "single_choice", "responseGroupId": "yn"}
  ]}],
  "responseGroups": {"yn": [
    {"value": 0, "label": "No", "score": 0},
    {"value": 1, "label": "Yes", "score": 1}
  ]},
  "scoreRange": {"min": 0, "max": 2},
  "interpretationRules": [
    {"subscale": "total", "minScore": 0, "maxScore": 2, "label": "Any", "severity": "none"}
  ]
}`

const brokenTemplateJSON = `{
  "id": "broken-1.0",
  "abbreviation": "BRK",
  "name": "Broken Scale",
  "totalItems": 9,
  "sections": [{"items": [
    {"number": 1, "text": "a", "responseType": "single_choice", "responseGroupId": "missing"}
  ]}],
  "responseGroups": {},
  "scoreRange": {"min": 0, "max": 9}
}`

func newTestStore() *templateStore {
	store := &templateStore{Log: zap.NewNop()}
	store.catalog.Store(&catalog{byID: map[string]*models.ScaleTemplate{}})
	return store
}

func writeTemplateFile(t *testing.T, dir, name, content string) {
	t.Helper()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestTemplateStore_LoadAll(t *testing.T) {
	t.Run("loads valid templates and reports broken ones", func(t *testing.T) {
		dir := t.TempDir()
		writeTemplateFile(t, dir, "mini.json", goodTemplateJSON)
		writeTemplateFile(t, dir, "broken.json", brokenTemplateJSON)
		writeTemplateFile(t, dir, "notes.txt", "not a template")

		store := newTestStore()
		loaded, loadErrors, err := store.LoadAll(dir)

		assert.NoError(t, err)
		assert.Len(t, loaded, 1)
		assert.Equal(t, "mini-1.0", loaded[0].ID)
		assert.Len(t, loadErrors, 1)
		assert.Equal(t, "broken.json", loadErrors[0].File)
		assert.NotEmpty(t, loadErrors[0].Reasons)

		template, ok := store.Get("mini-1.0")
		assert.True(t, ok)
		assert.Equal(t, "MINI", template.Abbreviation)

		_, ok = store.Get("broken-1.0")
		assert.False(t, ok)
	})

	t.Run("rejects a second file with the same template id", func(t *testing.T) {
		dir := t.TempDir()
		writeTemplateFile(t, dir, "a.json", goodTemplateJSON)
		writeTemplateFile(t, dir, "b.json", goodTemplateJSON)

		store := newTestStore()
		loaded, loadErrors, err := store.LoadAll(dir)

		assert.NoError(t, err)
		assert.Len(t, loaded, 1)
		assert.Len(t, loadErrors, 1)
		assert.Contains(t, loadErrors[0].Reasons[0], "duplicate template id")
	})

	t.Run("unreadable directory fails without touching the catalog", func(t *testing.T) {
		store := newTestStore()
		dir := t.TempDir()
		writeTemplateFile(t, dir, "mini.json", goodTemplateJSON)
		_, _, err := store.LoadAll(dir)
		assert.NoError(t, err)

		_, _, err = store.LoadAll(filepath.Join(dir, "does-not-exist"))

		assert.Error(t, err)
		_, ok := store.Get("mini-1.0")
		assert.True(t, ok, "failed reload must leave the previous catalog serving")
	})

	t.Run("reload replaces the catalog wholesale", func(t *testing.T) {
		first := t.TempDir()
		writeTemplateFile(t, first, "mini.json", goodTemplateJSON)

		store := newTestStore()
		_, _, err := store.LoadAll(first)
		assert.NoError(t, err)

		second := t.TempDir()
		_, _, err = store.LoadAll(second)
		assert.NoError(t, err)

		_, ok := store.Get("mini-1.0")
		assert.False(t, ok)
		assert.Empty(t, store.All())
	})
}

func TestTemplateStore_ValidateTemplate(t *testing.T) {
	store := newTestStore()
	template := validTemplate()
	template.InterpretationRules[1].MinScore = 3 // overlap with the 0-3 band
	store.catalog.Store(&catalog{
		byID:    map[string]*models.ScaleTemplate{template.ID: template},
		ordered: []*models.ScaleTemplate{template},
	})

	t.Run("warnings come back prefixed but do not fail validation", func(t *testing.T) {
		ok, report := store.ValidateTemplate(template.ID)

		assert.True(t, ok)
		assert.Len(t, report, 1)
		assert.Contains(t, report[0], "warning: ")
	})

	t.Run("unknown id fails with a catalog message", func(t *testing.T) {
		ok, report := store.ValidateTemplate("nope")

		assert.False(t, ok)
		assert.Contains(t, report[0], `template "nope" not in catalog`)
	})
}
