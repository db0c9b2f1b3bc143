// Package mapping resolves identifiers from the legacy spreadsheet-era scale
// records onto catalog templates. Resolution is heuristic by design: legacy
// data mixes ids, abbreviations and display names freely, so the mapper tries
// progressively looser matches and refuses to guess when a match is not
// unique.
package mapping

import (
	"strings"

	"mindhub-service/internal/app/models"
)

// LegacyRecord is one row of the legacy export that needs a template assigned.
type LegacyRecord struct {
	ScaleIdentifier string `json:"scaleIdentifier" bson:"scaleIdentifier"`
	ItemCount       int    `json:"itemCount" bson:"itemCount"`
}

// Mapper matches legacy records against a fixed snapshot of templates.
type Mapper struct {
	templates []*models.ScaleTemplate
}

func NewMapper(templates []*models.ScaleTemplate) *Mapper {
	return &Mapper{templates: templates}
}

// Resolve finds the template a legacy record belongs to, or nil when no
// unambiguous match exists. Match order:
//
//  1. exact template id
//  2. normalized abbreviation or name
//  3. item count, only when exactly one template has that many items
func (m *Mapper) Resolve(record LegacyRecord) *models.ScaleTemplate {
	identifier := strings.TrimSpace(record.ScaleIdentifier)
	if identifier != "" {
		for _, template := range m.templates {
			if template.ID == identifier {
				return template
			}
		}

		normalized := normalize(identifier)
		var matched *models.ScaleTemplate
		for _, template := range m.templates {
			if normalize(template.Abbreviation) == normalized || normalize(template.Name) == normalized {
				if matched != nil && matched != template {
					// Two distinct templates claim the same label, e.g. two
					// versions of one instrument. Not resolvable here.
					return nil
				}
				matched = template
			}
		}
		if matched != nil {
			return matched
		}
	}

	if record.ItemCount <= 0 {
		return nil
	}
	var byCount *models.ScaleTemplate
	for _, template := range m.templates {
		if template.TotalItems != record.ItemCount {
			continue
		}
		if byCount != nil {
			return nil
		}
		byCount = template
	}
	return byCount
}

// normalize collapses the variations seen in legacy exports: case, whitespace
// runs, and separator punctuation.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '\t', '-', '_', '.', '/':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
