package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"story-analyzer/internal/models"
	"story-analyzer/internal/transform"
)

type fakeAnalyzer struct {
	result *models.AnalysisResult
	err    error
	calls  int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, story *models.Story) (*models.AnalysisResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeReviewer struct {
	analysis *models.StoryAnalysis
	err      error
}

func (f *fakeReviewer) AnalyzeStory(ctx context.Context, input *models.StoryInput) (*models.StoryAnalysis, error) {
	return f.analysis, f.err
}

type fakeEstimator struct {
	estimates *models.DayEstimates
	feedback  *models.FeedbackRequest
	err       error
}

func (f *fakeEstimator) EstimateDays(ctx context.Context, story *models.Story) (*models.DayEstimates, error) {
	return f.estimates, f.err
}

func (f *fakeEstimator) SubmitFeedback(ctx context.Context, feedback *models.FeedbackRequest) (map[string]interface{}, error) {
	f.feedback = feedback
	if f.err != nil {
		return nil, f.err
	}
	return map[string]interface{}{"status": "recorded"}, nil
}

func TestSubmitStoryForAgileReview(t *testing.T) {
	analyzer := &fakeAnalyzer{result: &models.AnalysisResult{
		Analysis:    "INVEST Analysis:\n- Independent: Score: 4 Good independence...",
		Suggestions: models.Suggestions{"clarity": "Add more context"},
		Status:      "complete",
		Timestamp:   "2024-01-01",
	}}
	svc := NewStoryService(analyzer, transform.PolicyDashList, zap.NewNop())

	view, err := svc.SubmitStoryForAgileReview(context.Background(), &models.Story{Text: "As a user"})
	require.NoError(t, err)

	assert.Equal(t, 1, analyzer.calls)
	assert.Equal(t, "I", view.InvestAnalysis[0].Letter)
	assert.Contains(t, view.InvestAnalysis[0].Content, "Score: 4")
	assert.Equal(t, map[string]string{"clarity": "Add more context"}, view.Suggestions)
}

func TestSubmitStoryForAgileReview_ErrorIsLoggedAndReturnedUnchanged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	remoteErr := errors.New("connection refused")
	analyzer := &fakeAnalyzer{err: remoteErr}
	svc := NewStoryService(analyzer, transform.PolicyDashList, zap.New(core))

	view, err := svc.SubmitStoryForAgileReview(context.Background(), &models.Story{Text: "As a user"})

	assert.Nil(t, view)
	assert.Same(t, remoteErr, err)
	assert.Equal(t, 1, analyzer.calls)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "error submitting story", entry.Message)
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
}

func TestNormalizeStory(t *testing.T) {
	story := &models.Story{
		Text:               "  As a user  ",
		AcceptanceCriteria: []string{" works ", "", "  "},
		Context:            " ctx ",
	}

	require.NoError(t, NormalizeStory(story))
	assert.Equal(t, "As a user", story.Text)
	assert.Equal(t, []string{"works"}, story.AcceptanceCriteria)
	assert.Equal(t, "ctx", story.Context)
	assert.Equal(t, 1, story.Version)

	assert.Error(t, NormalizeStory(&models.Story{Text: "   "}))
}

func TestLoadStory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "story.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
text: As a user, I want to reset my password
acceptance_criteria:
  - Must be secure
context: Security feature
version: 3
`), 0644))

	story, err := LoadStory(path)
	require.NoError(t, err)

	assert.Equal(t, "As a user, I want to reset my password", story.Text)
	assert.Equal(t, []string{"Must be secure"}, story.AcceptanceCriteria)
	assert.Equal(t, 3, story.Version)
}

func TestSaveAndLoadAnalysisView(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	view := transform.Transform(&models.AnalysisResult{Analysis: "Small: yes"}, transform.PolicyDashList)

	path, err := SaveAnalysisView(view, dir, "Sprint 12")
	require.NoError(t, err)

	assert.Regexp(t, `sprint-12-\d{8}-\d{6}\.json$`, path)

	loaded, err := LoadAnalysisView(path)
	require.NoError(t, err)
	assert.Equal(t, view, loaded)
}

func TestReviewStory_FillsSummaries(t *testing.T) {
	reviewer := &fakeReviewer{analysis: &models.StoryAnalysis{
		ID: "a1",
		Analysis: models.Review{TeamEstimates: models.TeamEstimates{
			Days: models.DayEstimateSummary{Individual: []models.Estimate{
				{Name: "A", Estimate: 2}, {Name: "B", Estimate: 3},
			}},
			Points: models.PointEstimateSummary{Individual: []models.Estimate{
				{Name: "A", Estimate: 3}, {Name: "B", Estimate: 5}, {Name: "C", Estimate: 5},
			}},
		}},
	}}
	svc := NewReviewService(reviewer, nil)

	analysis, err := svc.ReviewStory(context.Background(), &models.StoryInput{Story: "As a user"})
	require.NoError(t, err)

	assert.Equal(t, 2.5, analysis.Analysis.TeamEstimates.Days.Average)
	assert.Equal(t, 4.3, analysis.Analysis.TeamEstimates.Points.Average)
	assert.Equal(t, 5, analysis.Analysis.TeamEstimates.Points.Fibonacci)
}

func TestReviewStory_KeepsServiceSummaries(t *testing.T) {
	reviewer := &fakeReviewer{analysis: &models.StoryAnalysis{
		Analysis: models.Review{TeamEstimates: models.TeamEstimates{
			Points: models.PointEstimateSummary{Average: 6, Fibonacci: 5},
		}},
	}}

	analysis, err := NewReviewService(reviewer, nil).ReviewStory(context.Background(), &models.StoryInput{Story: "x"})
	require.NoError(t, err)
	assert.Equal(t, 5, analysis.Analysis.TeamEstimates.Points.Fibonacci)
}

func TestReviewStory_Errors(t *testing.T) {
	_, err := NewReviewService(&fakeReviewer{}, nil).ReviewStory(context.Background(), &models.StoryInput{Story: " "})
	assert.ErrorContains(t, err, "story text is required")

	remoteErr := errors.New("graphql down")
	_, err = NewReviewService(&fakeReviewer{err: remoteErr}, nil).ReviewStory(context.Background(), &models.StoryInput{Story: "x"})
	assert.Same(t, remoteErr, err)
}

func TestNearestFibonacci(t *testing.T) {
	tests := []struct {
		average float64
		want    int
	}{
		{0.4, 1},
		{1, 1},
		{2.1, 3},
		{4.3, 5},
		{8, 8},
		{13.5, 21},
		{40, 21},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NearestFibonacci(tt.average), "average %v", tt.average)
	}
}

func TestStoryInputFrom(t *testing.T) {
	input := StoryInputFrom(&models.Story{Text: "t", AcceptanceCriteria: []string{"a"}, Context: "c"})
	assert.Equal(t, &models.StoryInput{Story: "t", AcceptanceCriteria: []string{"a"}, Context: "c"}, input)
}

func TestEstimateDays_RecomputesAverage(t *testing.T) {
	three, four := 3.0, 4.25
	estimator := &fakeEstimator{estimates: &models.DayEstimates{
		TeamEstimates: []models.MemberDayEstimate{
			{Name: "A", Estimate: &three},
			{Name: "B", Estimate: &four},
			{Name: "C"},
		},
	}}

	estimates, err := NewEstimateService(estimator, nil).EstimateDays(context.Background(), &models.Story{Text: "x"})
	require.NoError(t, err)

	assert.Equal(t, 3.6, estimates.Average)
	assert.Equal(t, 2, estimates.TotalEstimates)
}

func TestSubmitFeedback(t *testing.T) {
	estimator := &fakeEstimator{}
	result := &models.AnalysisResult{
		OriginalStory: &models.Story{Text: "x"},
		Analysis:      "text",
		Status:        "complete",
	}

	response, err := NewEstimateService(estimator, nil).SubmitFeedback(context.Background(), result, true)
	require.NoError(t, err)

	assert.Equal(t, "recorded", response["status"])
	require.NotNil(t, estimator.feedback)
	assert.True(t, estimator.feedback.Approved)
	assert.Equal(t, "text", estimator.feedback.AnalysisResult["analysis"])
	assert.NotContains(t, estimator.feedback.AnalysisResult, "improved_story")

	_, err = NewEstimateService(estimator, nil).SubmitFeedback(context.Background(), nil, false)
	assert.Error(t, err)
}
