package responses

// TemplateSummary is the catalog listing shape; full definitions are returned
// as the template model itself.
type TemplateSummary struct {
	ID                       string `json:"id"`
	Abbreviation             string `json:"abbreviation"`
	Name                     string `json:"name"`
	Category                 string `json:"category,omitempty"`
	Language                 string `json:"language,omitempty"`
	TotalItems               int    `json:"total_items"`
	EstimatedDurationMinutes int    `json:"estimated_duration_minutes,omitempty"`
}

type ReloadTemplatesResult struct {
	Loaded int                  `json:"loaded"`
	Failed []TemplateLoadReport `json:"failed,omitempty"`
}

type TemplateLoadReport struct {
	File    string   `json:"file"`
	Reasons []string `json:"reasons"`
}
