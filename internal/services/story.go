package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"story-analyzer/internal/helpers"
	"story-analyzer/internal/models"
	"story-analyzer/internal/transform"
)

// Analyzer submits stories to the analysis service
type Analyzer interface {
	Analyze(ctx context.Context, story *models.Story) (*models.AnalysisResult, error)
}

// StoryService turns submitted stories into view-models
type StoryService struct {
	analyzer Analyzer
	policy   transform.Policy
	logger   *zap.Logger
}

// NewStoryService creates a new story service
func NewStoryService(analyzer Analyzer, policy transform.Policy, logger *zap.Logger) *StoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoryService{
		analyzer: analyzer,
		policy:   policy,
		logger:   logger,
	}
}

// SubmitStoryForAgileReview sends the story once and transforms the result.
// Errors are logged and returned unchanged.
func (s *StoryService) SubmitStoryForAgileReview(ctx context.Context, story *models.Story) (*models.AnalysisView, error) {
	result, err := s.analyzer.Analyze(ctx, story)
	if err != nil {
		s.logger.Error("error submitting story", zap.Error(err))
		return nil, err
	}

	s.logger.Debug("analysis received",
		zap.String("status", result.Status),
		zap.String("timestamp", result.Timestamp),
		zap.Int("analysis_bytes", len(result.Analysis)),
	)

	return transform.Transform(result, s.policy), nil
}

// NormalizeStory trims the story and fills the default version
func NormalizeStory(story *models.Story) error {
	story.Text = strings.TrimSpace(story.Text)
	if story.Text == "" {
		return fmt.Errorf("story text is required")
	}

	criteria := make([]string, 0, len(story.AcceptanceCriteria))
	for _, c := range story.AcceptanceCriteria {
		if c = strings.TrimSpace(c); c != "" {
			criteria = append(criteria, c)
		}
	}
	story.AcceptanceCriteria = criteria
	story.Context = strings.TrimSpace(story.Context)

	if story.Version == 0 {
		story.Version = 1
	}
	return nil
}

// LoadStory reads a story from a YAML or JSON file
func LoadStory(path string) (*models.Story, error) {
	var story models.Story
	if err := helpers.LoadYAML(path, &story); err != nil {
		return nil, fmt.Errorf("failed to load story file: %w", err)
	}
	if err := NormalizeStory(&story); err != nil {
		return nil, err
	}
	return &story, nil
}

// SaveAnalysisView writes a view-model to the output directory, named after
// prefix and the current time, and returns its path
func SaveAnalysisView(view *models.AnalysisView, outputDir, prefix string) (string, error) {
	if err := helpers.EnsureDir(outputDir); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := helpers.OutputPath(outputDir, prefix, "json", time.Now())
	if err := helpers.SaveJSON(view, path); err != nil {
		return "", fmt.Errorf("failed to save analysis: %w", err)
	}
	return path, nil
}

// LoadAnalysisView reads a view-model saved by SaveAnalysisView
func LoadAnalysisView(path string) (*models.AnalysisView, error) {
	var view models.AnalysisView
	if err := helpers.LoadJSON(path, &view); err != nil {
		return nil, fmt.Errorf("failed to load analysis file: %w", err)
	}
	return &view, nil
}
