package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"story-analyzer/internal/models"
)

// Estimator talks to the day estimation and feedback endpoints
type Estimator interface {
	EstimateDays(ctx context.Context, story *models.Story) (*models.DayEstimates, error)
	SubmitFeedback(ctx context.Context, feedback *models.FeedbackRequest) (map[string]interface{}, error)
}

// EstimateService handles the team estimation workflow
type EstimateService struct {
	estimator Estimator
	logger    *zap.Logger
}

// NewEstimateService creates a new estimate service
func NewEstimateService(estimator Estimator, logger *zap.Logger) *EstimateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EstimateService{estimator: estimator, logger: logger}
}

// EstimateDays asks the team for person-day estimates. The average and count
// are recomputed from the individual answers when the service sent none.
func (s *EstimateService) EstimateDays(ctx context.Context, story *models.Story) (*models.DayEstimates, error) {
	estimates, err := s.estimator.EstimateDays(ctx, story)
	if err != nil {
		s.logger.Error("error estimating story", zap.Error(err))
		return nil, err
	}
	if estimates == nil {
		return nil, fmt.Errorf("estimation service returned no estimates")
	}

	if estimates.Average == 0 || estimates.TotalEstimates == 0 {
		var sum float64
		count := 0
		for _, member := range estimates.TeamEstimates {
			if member.Estimate != nil {
				sum += *member.Estimate
				count++
			}
		}
		if count > 0 {
			estimates.Average = roundOneDecimal(sum / float64(count))
		}
		estimates.TotalEstimates = count
	}

	return estimates, nil
}

// SubmitFeedback records whether the user approved an analysis
func (s *EstimateService) SubmitFeedback(ctx context.Context, result *models.AnalysisResult, approved bool) (map[string]interface{}, error) {
	if result == nil {
		return nil, fmt.Errorf("analysis result is required")
	}

	payload := map[string]interface{}{
		"analysis":    result.Analysis,
		"suggestions": result.Suggestions,
		"status":      result.Status,
		"timestamp":   result.Timestamp,
	}
	if result.OriginalStory != nil {
		payload["original_story"] = result.OriginalStory
	}
	if result.ImprovedStory != nil {
		payload["improved_story"] = result.ImprovedStory
	}

	response, err := s.estimator.SubmitFeedback(ctx, &models.FeedbackRequest{
		AnalysisResult: payload,
		Approved:       approved,
	})
	if err != nil {
		s.logger.Error("error submitting feedback", zap.Error(err))
		return nil, err
	}

	return response, nil
}
