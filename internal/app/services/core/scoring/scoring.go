// Package scoring computes raw, subscale, and total scores for an assessment
// from its template and submitted responses. Everything here is a pure
// function over in-memory data; persistence and state transitions are the
// assessment usecase's job, which keeps scoring unit-testable without a
// database.
package scoring

import (
	"strconv"

	"mindhub-service/internal/app/models"
)

// Score resolves every submitted value through the item's response-group
// lookup table and accumulates per-subscale sums plus a grand total.
//
// In complete mode (partial=false) any unanswered item fails the whole call
// with an *IncompleteResponsesError naming the missing item numbers. In
// partial mode missing items contribute zero and are listed in
// ScoreResult.MissingItems so callers can flag the snapshot.
func Score(template *models.ScaleTemplate, responses map[string]models.ItemResponse, partial bool) (*models.ScoreResult, error) {
	result := &models.ScoreResult{
		Subscales: make(map[string]int),
		Partial:   partial,
	}

	var missing []int
	for _, item := range template.Items() {
		response, answered := responses[strconv.Itoa(item.Number)]
		if !answered || response.Value == nil {
			missing = append(missing, item.Number)
			continue
		}

		score, err := resolveItemScore(template, item, *response.Value)
		if err != nil {
			return nil, err
		}

		result.Total += score
		if item.Subscale != "" {
			result.Subscales[item.Subscale] += score
		}
	}

	if len(missing) > 0 {
		if !partial {
			return nil, &IncompleteResponsesError{MissingItems: missing}
		}
		result.MissingItems = missing
	}

	if len(result.Subscales) == 0 {
		result.Subscales = nil
	}
	return result, nil
}

// resolveItemScore maps the raw submitted value to the option's score, then
// mirrors it within the group's score bounds when the item is reverse-scored.
// The mirror is computed per group because groups differ in cardinality and
// may score non-linearly.
func resolveItemScore(template *models.ScaleTemplate, item models.Item, value int) (int, error) {
	options, ok := template.ResponseGroups[item.ResponseGroupID]
	if !ok {
		return 0, &UnknownGroupError{ItemNumber: item.Number, ResponseGroupID: item.ResponseGroupID}
	}

	score, found := 0, false
	for _, option := range options {
		if option.Value == value {
			score = option.Score
			found = true
			break
		}
	}
	if !found {
		return 0, &UnknownOptionError{ItemNumber: item.Number, ResponseGroupID: item.ResponseGroupID, Value: value}
	}

	if item.Reversed {
		min, max, _ := template.GroupScoreBounds(item.ResponseGroupID)
		score = max - score + min
	}
	return score, nil
}

// MaxAchievableTotal sums the highest option score of every item's group.
// Load-time validation uses it to check that scoreRange bounds the instrument.
func MaxAchievableTotal(template *models.ScaleTemplate) int {
	total := 0
	for _, item := range template.Items() {
		_, max, ok := template.GroupScoreBounds(item.ResponseGroupID)
		if ok {
			total += max
		}
	}
	return total
}

// MinAchievableTotal is the complement of MaxAchievableTotal.
func MinAchievableTotal(template *models.ScaleTemplate) int {
	total := 0
	for _, item := range template.Items() {
		min, _, ok := template.GroupScoreBounds(item.ResponseGroupID)
		if ok {
			total += min
		}
	}
	return total
}
