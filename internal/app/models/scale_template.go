package models

// ScaleTemplate is the declarative, versioned definition of a psychometric
// instrument. Templates are immutable once loaded into the catalog; every
// other component treats them as read-only.
type ScaleTemplate struct {
	ID                       string                      `json:"id"`
	Abbreviation             string                      `json:"abbreviation"`
	Name                     string                      `json:"name"`
	Version                  string                      `json:"version"`
	Language                 string                      `json:"language"`
	Category                 string                      `json:"category,omitempty"`
	EstimatedDurationMinutes int                         `json:"estimatedDurationMinutes,omitempty"`
	Sections                 []Section                   `json:"sections"`
	ResponseGroups           map[string][]ResponseOption `json:"responseGroups"`
	ScoreRange               ScoreRange                  `json:"scoreRange"`
	TotalItems               int                         `json:"totalItems"`
	InterpretationRules      []InterpretationRule        `json:"interpretationRules"`
	Disclaimer               string                      `json:"disclaimer,omitempty"`
}

type Section struct {
	Title string `json:"title,omitempty"`
	Items []Item `json:"items"`
}

type Item struct {
	Number          int    `json:"number"`
	Text            string `json:"text"`
	ResponseType    string `json:"responseType"`
	ResponseGroupID string `json:"responseGroupId"`
	Reversed        bool   `json:"reversed,omitempty"`
	Subscale        string `json:"subscale,omitempty"`
}

// ResponseOption maps a raw submitted value to the score it contributes.
// Score may differ from Value to support non-linear scoring tables.
type ResponseOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
	Score int    `json:"score"`
}

type ScoreRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// InterpretationRule maps a closed score range to a clinical band. Subscale is
// either a named subscale or "total". First matching rule wins.
type InterpretationRule struct {
	Subscale string `json:"subscale"`
	MinScore int    `json:"minScore"`
	MaxScore int    `json:"maxScore"`
	Label    string `json:"label"`
	Severity string `json:"severity"`
}

// Items flattens the section structure in declaration order.
func (t *ScaleTemplate) Items() []Item {
	items := make([]Item, 0, t.TotalItems)
	for _, section := range t.Sections {
		items = append(items, section.Items...)
	}
	return items
}

// GroupScoreBounds returns the minimum and maximum option score within a
// response group. Reverse scoring mirrors inside these bounds, so they must be
// resolved per group rather than assumed from the raw value range.
func (t *ScaleTemplate) GroupScoreBounds(groupID string) (min, max int, ok bool) {
	options, found := t.ResponseGroups[groupID]
	if !found || len(options) == 0 {
		return 0, 0, false
	}
	min, max = options[0].Score, options[0].Score
	for _, option := range options[1:] {
		if option.Score < min {
			min = option.Score
		}
		if option.Score > max {
			max = option.Score
		}
	}
	return min, max, true
}
