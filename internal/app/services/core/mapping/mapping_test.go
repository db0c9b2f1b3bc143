package mapping

import (
	"testing"

	"mindhub-service/internal/app/models"

	"github.com/stretchr/testify/assert"
)

func catalogFixture() []*models.ScaleTemplate {
	return []*models.ScaleTemplate{
		{ID: "phq9-1.0", Abbreviation: "PHQ-9", Name: "Patient Health Questionnaire-9", TotalItems: 9},
		{ID: "gad7-1.0", Abbreviation: "GAD-7", Name: "Generalized Anxiety Disorder-7", TotalItems: 7},
		{ID: "rses-1.0", Abbreviation: "RSES", Name: "Rosenberg Self-Esteem Scale", TotalItems: 10},
	}
}

func TestMapper_Resolve(t *testing.T) {
	mapper := NewMapper(catalogFixture())

	t.Run("exact template id wins outright", func(t *testing.T) {
		resolved := mapper.Resolve(LegacyRecord{ScaleIdentifier: "gad7-1.0"})

		assert.NotNil(t, resolved)
		assert.Equal(t, "gad7-1.0", resolved.ID)
	})

	t.Run("abbreviation matches across separator styles", func(t *testing.T) {
		for _, identifier := range []string{"PHQ-9", "phq 9", "phq_9", "PHQ.9", " phq-9 "} {
			resolved := mapper.Resolve(LegacyRecord{ScaleIdentifier: identifier})

			assert.NotNil(t, resolved, "identifier %q", identifier)
			assert.Equal(t, "phq9-1.0", resolved.ID, "identifier %q", identifier)
		}
	})

	t.Run("display name matches too", func(t *testing.T) {
		resolved := mapper.Resolve(LegacyRecord{ScaleIdentifier: "rosenberg self-esteem scale"})

		assert.NotNil(t, resolved)
		assert.Equal(t, "rses-1.0", resolved.ID)
	})

	t.Run("item count is the fallback", func(t *testing.T) {
		resolved := mapper.Resolve(LegacyRecord{ScaleIdentifier: "unlabeled export", ItemCount: 10})

		assert.NotNil(t, resolved)
		assert.Equal(t, "rses-1.0", resolved.ID)
	})

	t.Run("unknown identifier without a count stays unresolved", func(t *testing.T) {
		assert.Nil(t, mapper.Resolve(LegacyRecord{ScaleIdentifier: "mystery scale"}))
	})

	t.Run("empty record stays unresolved", func(t *testing.T) {
		assert.Nil(t, mapper.Resolve(LegacyRecord{}))
	})
}

func TestMapper_RefusesAmbiguity(t *testing.T) {
	t.Run("two templates sharing a label", func(t *testing.T) {
		mapper := NewMapper([]*models.ScaleTemplate{
			{ID: "phq9-1.0", Abbreviation: "PHQ-9", Name: "Patient Health Questionnaire-9", TotalItems: 9},
			{ID: "phq9-2.0", Abbreviation: "PHQ-9", Name: "Patient Health Questionnaire-9", TotalItems: 9},
		})

		assert.Nil(t, mapper.Resolve(LegacyRecord{ScaleIdentifier: "phq-9"}))
	})

	t.Run("two templates sharing an item count", func(t *testing.T) {
		mapper := NewMapper([]*models.ScaleTemplate{
			{ID: "a-1.0", Abbreviation: "A", Name: "Scale A", TotalItems: 9},
			{ID: "b-1.0", Abbreviation: "B", Name: "Scale B", TotalItems: 9},
		})

		assert.Nil(t, mapper.Resolve(LegacyRecord{ScaleIdentifier: "unlabeled", ItemCount: 9}))
	})
}
