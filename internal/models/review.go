package models

// Confidence levels reported by team members alongside an estimate
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// StoryInput represents the GraphQL input for the AnalyzeStory mutation
type StoryInput struct {
	Story              string   `json:"story"`
	AcceptanceCriteria []string `json:"acceptanceCriteria"`
	Context            string   `json:"context,omitempty"`
}

// StoryAnalysis represents the full review returned by the GraphQL service
type StoryAnalysis struct {
	ID                 string   `json:"id"`
	Story              string   `json:"story"`
	AcceptanceCriteria []string `json:"acceptanceCriteria"`
	Analysis           Review   `json:"analysis"`
}

// Review groups the coach, developer and team perspectives
type Review struct {
	AgileCoach    AgileCoachAnalysis `json:"agileCoach"`
	SeniorDev     SeniorDevAnalysis  `json:"seniorDev"`
	TeamEstimates TeamEstimates      `json:"teamEstimates"`
}

// AgileCoachAnalysis represents the agile coach's review
type AgileCoachAnalysis struct {
	Analysis        string   `json:"analysis"`
	Recommendations []string `json:"recommendations"`
	Risks           []string `json:"risks"`
}

// SeniorDevAnalysis represents the senior developer's technical review
type SeniorDevAnalysis struct {
	Analysis         string           `json:"analysis"`
	TechnicalDetails TechnicalDetails `json:"technicalDetails"`
	Risks            []string         `json:"risks"`
}

// TechnicalDetails represents feasibility and complexity notes
type TechnicalDetails struct {
	Feasibility  string   `json:"feasibility"`
	Complexity   string   `json:"complexity"`
	Dependencies []string `json:"dependencies"`
	Risks        []string `json:"risks"`
}

// TeamEstimates represents day and point estimates from the team
type TeamEstimates struct {
	Days   DayEstimateSummary   `json:"days"`
	Points PointEstimateSummary `json:"points"`
}

// DayEstimateSummary represents person-day estimates
type DayEstimateSummary struct {
	Average    float64    `json:"average"`
	Individual []Estimate `json:"individual"`
}

// PointEstimateSummary represents story point estimates
type PointEstimateSummary struct {
	Average    float64    `json:"average"`
	Fibonacci  int        `json:"fibonacci"`
	Individual []Estimate `json:"individual"`
}

// Estimate represents a single team member's estimate
type Estimate struct {
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	Estimate   float64 `json:"estimate"`
	Confidence string  `json:"confidence"`
}

// DayEstimates represents the response of the day estimation endpoint
type DayEstimates struct {
	TeamEstimates  []MemberDayEstimate `json:"team_estimates"`
	Average        float64             `json:"average"`
	TotalEstimates int                 `json:"total_estimates"`
}

// MemberDayEstimate represents one team member's person-day estimate.
// Estimate is nil when the member's answer carried no number.
type MemberDayEstimate struct {
	Name          string   `json:"name"`
	Role          string   `json:"role"`
	Estimate      *float64 `json:"estimate"`
	Justification string   `json:"justification"`
}
