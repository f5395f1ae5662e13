package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"story-analyzer/internal/models"
)

// FibonacciPoints is the story point scale the team estimates on
var FibonacciPoints = []int{1, 2, 3, 5, 8, 13, 21}

// StoryReviewer runs the full GraphQL review of a story
type StoryReviewer interface {
	AnalyzeStory(ctx context.Context, input *models.StoryInput) (*models.StoryAnalysis, error)
}

// ReviewService handles coach, developer and team reviews over GraphQL
type ReviewService struct {
	reviewer StoryReviewer
	logger   *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(reviewer StoryReviewer, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{reviewer: reviewer, logger: logger}
}

// ReviewStory runs the AnalyzeStory mutation and fills in any summary the
// service left empty
func (s *ReviewService) ReviewStory(ctx context.Context, input *models.StoryInput) (*models.StoryAnalysis, error) {
	if strings.TrimSpace(input.Story) == "" {
		return nil, fmt.Errorf("story text is required")
	}

	analysis, err := s.reviewer.AnalyzeStory(ctx, input)
	if err != nil {
		s.logger.Error("error reviewing story", zap.Error(err))
		return nil, err
	}

	estimates := &analysis.Analysis.TeamEstimates
	if estimates.Days.Average == 0 {
		estimates.Days.Average = AverageEstimate(estimates.Days.Individual)
	}
	if estimates.Points.Average == 0 {
		estimates.Points.Average = AverageEstimate(estimates.Points.Individual)
	}
	if estimates.Points.Fibonacci == 0 && estimates.Points.Average > 0 {
		estimates.Points.Fibonacci = NearestFibonacci(estimates.Points.Average)
	}

	return analysis, nil
}

// StoryInputFrom converts a REST story into the GraphQL input
func StoryInputFrom(story *models.Story) *models.StoryInput {
	return &models.StoryInput{
		Story:              story.Text,
		AcceptanceCriteria: story.AcceptanceCriteria,
		Context:            story.Context,
	}
}

// AverageEstimate averages the estimates, rounded to one decimal
func AverageEstimate(estimates []models.Estimate) float64 {
	if len(estimates) == 0 {
		return 0
	}
	var sum float64
	for _, e := range estimates {
		sum += e.Estimate
	}
	return roundOneDecimal(sum / float64(len(estimates)))
}

// NearestFibonacci returns the smallest point value on the scale that is at
// least the given average, capped at the top of the scale
func NearestFibonacci(average float64) int {
	for _, p := range FibonacciPoints {
		if float64(p) >= average {
			return p
		}
	}
	return FibonacciPoints[len(FibonacciPoints)-1]
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
