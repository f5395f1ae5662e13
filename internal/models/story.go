package models

// Story represents a user story submitted for analysis
type Story struct {
	Text               string   `json:"text" yaml:"text"`
	AcceptanceCriteria []string `json:"acceptance_criteria" yaml:"acceptance_criteria"`
	Context            string   `json:"context" yaml:"context"`
	Version            int      `json:"version,omitempty" yaml:"version"`
}

// ImprovedStory represents the rewritten story returned by the analysis service
type ImprovedStory struct {
	Text               string   `json:"text"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
}

// AnalysisResult represents the raw response of the analysis service
type AnalysisResult struct {
	OriginalStory *Story         `json:"original_story,omitempty"`
	ImprovedStory *ImprovedStory `json:"improved_story"`
	Analysis      string         `json:"analysis"`
	Suggestions   Suggestions    `json:"suggestions"`
	Status        string         `json:"status"`
	Timestamp     string         `json:"timestamp"`
}

// InvestEntry represents one INVEST criterion in the view-model
type InvestEntry struct {
	Letter  string `json:"letter"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// AnalysisView is the UI-ready form of an AnalysisResult
type AnalysisView struct {
	ImprovedStory  ImprovedStory     `json:"improved_story"`
	InvestAnalysis []InvestEntry     `json:"invest_analysis"`
	Suggestions    map[string]string `json:"suggestions"`
}

// FeedbackRequest represents the user's verdict on an analysis
type FeedbackRequest struct {
	AnalysisResult map[string]interface{} `json:"analysis_result"`
	Approved       bool                   `json:"approved"`
}
