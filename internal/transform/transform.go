// Package transform reshapes raw analysis results into the view-model the
// views render from.
package transform

import (
	"fmt"
	"strings"

	"story-analyzer/internal/models"
)

// InvestOrder is the fixed order of the INVEST criteria
var InvestOrder = []string{
	"Independent",
	"Negotiable",
	"Valuable",
	"Estimable",
	"Small",
	"Testable",
}

// Policy selects how suggestions are pulled out of the analysis text
type Policy string

const (
	// PolicyDashList reads "- key: value" lines following a "Suggestions:" marker
	PolicyDashList Policy = "dash-list"

	// PolicyAdditional keeps everything after the last "Additional Suggestions:" marker
	PolicyAdditional Policy = "additional"
)

const (
	suggestionsMarker = "Suggestions:"
	additionalMarker  = "Additional Suggestions:"

	// AdditionalKey is the suggestions key used by PolicyAdditional
	AdditionalKey = "additional_suggestions"
)

// ParsePolicy converts a config value into a Policy. An empty value selects
// PolicyDashList.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.TrimSpace(value)) {
	case "", PolicyDashList:
		return PolicyDashList, nil
	case PolicyAdditional:
		return PolicyAdditional, nil
	default:
		return "", fmt.Errorf("unknown suggestion policy %q (want %q or %q)", value, PolicyDashList, PolicyAdditional)
	}
}

// Transform converts a raw analysis result into an AnalysisView. It never
// fails: missing or malformed parts degrade to empty values.
func Transform(raw *models.AnalysisResult, policy Policy) *models.AnalysisView {
	if raw == nil {
		raw = &models.AnalysisResult{}
	}

	lines := strings.Split(raw.Analysis, "\n")

	var extracted map[string]string
	switch policy {
	case PolicyAdditional:
		extracted = additionalSuggestions(raw.Analysis)
	default:
		extracted = dashListSuggestions(lines)
	}

	suggestions := extracted
	if len(suggestions) == 0 {
		suggestions = make(map[string]string, len(raw.Suggestions))
		for key, value := range raw.Suggestions {
			suggestions[key] = value
		}
	}

	return &models.AnalysisView{
		ImprovedStory:  improvedStory(raw.ImprovedStory),
		InvestAnalysis: investAnalysis(lines),
		Suggestions:    suggestions,
	}
}

func investAnalysis(lines []string) []models.InvestEntry {
	entries := make([]models.InvestEntry, 0, len(InvestOrder))
	for _, criterion := range InvestOrder {
		prefix := criterion + ":"

		var fragments []string
		for _, line := range lines {
			if strings.Contains(line, prefix) {
				fragments = append(fragments, strings.TrimSpace(strings.Replace(line, prefix, "", 1)))
			}
		}

		entries = append(entries, models.InvestEntry{
			Letter:  criterion[:1],
			Title:   criterion,
			Content: strings.Join(fragments, " "),
		})
	}
	return entries
}

func dashListSuggestions(lines []string) map[string]string {
	suggestions := make(map[string]string)

	start := -1
	for i, line := range lines {
		if strings.Contains(line, suggestionsMarker) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return suggestions
	}

	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "-") {
			continue
		}

		key, value, found := strings.Cut(strings.TrimSpace(strings.TrimPrefix(trimmed, "-")), ":")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			continue
		}
		suggestions[key] = strings.TrimSpace(value)
	}

	return suggestions
}

func additionalSuggestions(text string) map[string]string {
	suggestions := make(map[string]string)

	idx := strings.LastIndex(text, additionalMarker)
	if idx < 0 {
		return suggestions
	}

	suggestions[AdditionalKey] = strings.TrimSpace(text[idx+len(additionalMarker):])
	return suggestions
}

func improvedStory(story *models.ImprovedStory) models.ImprovedStory {
	if story == nil {
		return models.ImprovedStory{AcceptanceCriteria: []string{}}
	}

	criteria := make([]string, len(story.AcceptanceCriteria))
	copy(criteria, story.AcceptanceCriteria)

	return models.ImprovedStory{
		Text:               story.Text,
		AcceptanceCriteria: criteria,
	}
}
