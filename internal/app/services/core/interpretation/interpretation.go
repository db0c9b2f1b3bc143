// Package interpretation maps computed scores onto the clinical bands a
// template declares. It never fails: authoring gaps degrade to an
// Unclassified band with a warning flag so raw scores stay presentable.
package interpretation

import (
	"sort"

	"mindhub-service/internal/app/models"
	"mindhub-service/internal/pkg/constvars"
)

// UnclassifiedLabel is the sentinel band used when no authored rule covers a
// score.
const UnclassifiedLabel = "Unclassified"

// Interpret classifies the grand total and every named subscale present in
// scores. Rules are scanned in declaration order and the first range
// containing the score wins; overlaps are an authoring warning flagged at
// load time, not a runtime concern.
func Interpret(template *models.ScaleTemplate, scores *models.ScoreResult) *models.InterpretationResult {
	result := &models.InterpretationResult{}

	result.Bands = append(result.Bands, classify(template, constvars.InterpretationSubscaleTotal, scores.Total))

	subscales := make([]string, 0, len(scores.Subscales))
	for name := range scores.Subscales {
		subscales = append(subscales, name)
	}
	sort.Strings(subscales)
	for _, name := range subscales {
		result.Bands = append(result.Bands, classify(template, name, scores.Subscales[name]))
	}

	for _, band := range result.Bands {
		if band.Unclassified {
			result.HasWarnings = true
			break
		}
	}
	return result
}

func classify(template *models.ScaleTemplate, subscale string, score int) models.InterpretationBand {
	for _, rule := range template.InterpretationRules {
		if rule.Subscale != subscale {
			continue
		}
		if score >= rule.MinScore && score <= rule.MaxScore {
			return models.InterpretationBand{
				Subscale:  subscale,
				ScoreUsed: score,
				Label:     rule.Label,
				Severity:  rule.Severity,
			}
		}
	}
	return models.InterpretationBand{
		Subscale:     subscale,
		ScoreUsed:    score,
		Label:        UnclassifiedLabel,
		Unclassified: true,
	}
}
