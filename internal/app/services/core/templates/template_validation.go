package templates

import (
	"fmt"

	"mindhub-service/internal/app/models"
	"mindhub-service/internal/app/services/core/scoring"
	"mindhub-service/internal/pkg/constvars"
)

// validateStructure runs the load-time structural checks. Issues reject the
// template; warnings (overlapping interpretation ranges) are surfaced so
// authors can fix them without blocking the rest of the catalog, since
// first-match-wins makes overlaps survivable at runtime.
func validateStructure(template *models.ScaleTemplate) (issues, warnings []string) {
	if template.ID == "" {
		issues = append(issues, "missing template id")
	}
	if template.Abbreviation == "" {
		issues = append(issues, "missing abbreviation")
	}
	if template.Name == "" {
		issues = append(issues, "missing name")
	}
	if len(template.Sections) == 0 {
		issues = append(issues, "template has no sections")
	}

	items := template.Items()
	if template.TotalItems != len(items) {
		issues = append(issues, fmt.Sprintf("totalItems is %d but template declares %d items", template.TotalItems, len(items)))
	}

	subscales := map[string]bool{}
	seenNumbers := map[int]bool{}
	for _, item := range items {
		if seenNumbers[item.Number] {
			issues = append(issues, fmt.Sprintf("duplicate item number %d", item.Number))
		}
		seenNumbers[item.Number] = true

		if item.Subscale != "" {
			subscales[item.Subscale] = true
		}

		options, ok := template.ResponseGroups[item.ResponseGroupID]
		if !ok {
			issues = append(issues, fmt.Sprintf("item %d references undefined response group %q", item.Number, item.ResponseGroupID))
			continue
		}
		if len(options) == 0 {
			issues = append(issues, fmt.Sprintf("response group %q has no options", item.ResponseGroupID))
		}
		seenValues := map[int]bool{}
		for _, option := range options {
			if seenValues[option.Value] {
				issues = append(issues, fmt.Sprintf("response group %q declares value %d twice", item.ResponseGroupID, option.Value))
			}
			seenValues[option.Value] = true
		}
	}

	if len(issues) > 0 {
		// Range checks below need resolvable groups; stop here otherwise.
		return issues, warnings
	}

	maxTotal := scoring.MaxAchievableTotal(template)
	minTotal := scoring.MinAchievableTotal(template)
	if template.ScoreRange.Max < maxTotal {
		issues = append(issues, fmt.Sprintf("scoreRange.max %d does not bound the maximum achievable sum %d", template.ScoreRange.Max, maxTotal))
	}
	if template.ScoreRange.Min > minTotal {
		issues = append(issues, fmt.Sprintf("scoreRange.min %d exceeds the minimum achievable sum %d", template.ScoreRange.Min, minTotal))
	}

	issues = append(issues, validateRules(template, subscales, minTotal, maxTotal)...)
	warnings = append(warnings, ruleOverlapWarnings(template)...)
	return issues, warnings
}

func validateRules(template *models.ScaleTemplate, subscales map[string]bool, minTotal, maxTotal int) []string {
	var issues []string

	hasTotalRule := false
	for _, rule := range template.InterpretationRules {
		if rule.MinScore > rule.MaxScore {
			issues = append(issues, fmt.Sprintf("interpretation rule %q/%q has minScore %d above maxScore %d", rule.Subscale, rule.Label, rule.MinScore, rule.MaxScore))
		}
		if rule.Subscale == constvars.InterpretationSubscaleTotal {
			hasTotalRule = true
			continue
		}
		if !subscales[rule.Subscale] {
			issues = append(issues, fmt.Sprintf("interpretation rule targets subscale %q which appears on no item", rule.Subscale))
		}
	}

	// Every achievable grand total must land in at least one total band;
	// clinicians always see a classification for the instrument score.
	if hasTotalRule {
		for score := minTotal; score <= maxTotal; score++ {
			if !coveredByTotalRule(template, score) {
				issues = append(issues, fmt.Sprintf("total score %d is covered by no interpretation rule", score))
			}
		}
	}
	return issues
}

func coveredByTotalRule(template *models.ScaleTemplate, score int) bool {
	for _, rule := range template.InterpretationRules {
		if rule.Subscale != constvars.InterpretationSubscaleTotal {
			continue
		}
		if score >= rule.MinScore && score <= rule.MaxScore {
			return true
		}
	}
	return false
}

func ruleOverlapWarnings(template *models.ScaleTemplate) []string {
	var warnings []string
	rules := template.InterpretationRules
	for i := 0; i < len(rules); i++ {
		for j := i + 1; j < len(rules); j++ {
			if rules[i].Subscale != rules[j].Subscale {
				continue
			}
			if rules[i].MinScore <= rules[j].MaxScore && rules[j].MinScore <= rules[i].MaxScore {
				warnings = append(warnings, fmt.Sprintf("interpretation rules %q and %q overlap on subscale %q; declaration order decides", rules[i].Label, rules[j].Label, rules[i].Subscale))
			}
		}
	}
	return warnings
}
