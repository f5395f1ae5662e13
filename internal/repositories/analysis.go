package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"story-analyzer/internal/config"
	"story-analyzer/internal/models"
)

// StatusError is returned when the analysis service answers with a non-2xx status
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// AnalysisRepository handles analysis service REST interactions
type AnalysisRepository struct {
	config *config.APIConfig
	client *http.Client
}

// NewAnalysisRepository creates a new analysis repository. A zero timeout
// leaves the http.Client without one.
func NewAnalysisRepository(apiConfig *config.APIConfig) *AnalysisRepository {
	return &AnalysisRepository{
		config: apiConfig,
		client: &http.Client{
			Timeout: time.Duration(apiConfig.TimeoutSeconds) * time.Second,
		},
	}
}

// Analyze submits a story to the analysis endpoint
func (r *AnalysisRepository) Analyze(ctx context.Context, story *models.Story) (*models.AnalysisResult, error) {
	var result models.AnalysisResult
	if err := r.post(ctx, "/api/analyze", story, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitFeedback sends the user's approval or rejection of an analysis
func (r *AnalysisRepository) SubmitFeedback(ctx context.Context, feedback *models.FeedbackRequest) (map[string]interface{}, error) {
	var result map[string]interface{}
	if err := r.post(ctx, "/api/analyze/feedback", feedback, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// EstimateDays asks the team for person-day estimates
func (r *AnalysisRepository) EstimateDays(ctx context.Context, story *models.Story) (*models.DayEstimates, error) {
	body := struct {
		Story *models.Story `json:"story"`
	}{Story: story}

	var result models.DayEstimates
	if err := r.post(ctx, "/api/estimate/days", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *AnalysisRepository) post(ctx context.Context, path string, payload, target interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := r.config.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &StatusError{
			Method:     http.MethodPost,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
