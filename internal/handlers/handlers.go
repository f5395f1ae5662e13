package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"story-analyzer/internal/models"
	"story-analyzer/internal/repositories"
	"story-analyzer/internal/router"
	"story-analyzer/internal/services"
	"story-analyzer/internal/session"
	"story-analyzer/internal/theme"
	"story-analyzer/internal/views"
)

// SessionCookie binds a browser to its session
const SessionCookie = "story_session"

const sessionKey = "session"

// StorySubmitter submits stories for agile review
type StorySubmitter interface {
	SubmitStoryForAgileReview(ctx context.Context, story *models.Story) (*models.AnalysisView, error)
}

// StoryReviewer runs the GraphQL review
type StoryReviewer interface {
	ReviewStory(ctx context.Context, input *models.StoryInput) (*models.StoryAnalysis, error)
}

// DayEstimator asks the team for day estimates
type DayEstimator interface {
	EstimateDays(ctx context.Context, story *models.Story) (*models.DayEstimates, error)
}

// StoryHandler serves the UI server's JSON API
type StoryHandler struct {
	stories   StorySubmitter
	reviewer  StoryReviewer
	estimator DayEstimator
	sessions  *session.Registry
	theme     *theme.Theme
	logger    *zap.Logger
}

// NewStoryHandler creates a new handler
func NewStoryHandler(stories StorySubmitter, reviewer StoryReviewer, estimator DayEstimator, sessions *session.Registry, th *theme.Theme, logger *zap.Logger) *StoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoryHandler{
		stories:   stories,
		reviewer:  reviewer,
		estimator: estimator,
		sessions:  sessions,
		theme:     th,
		logger:    logger,
	}
}

// Routes mounts the view routes and the JSON API on the engine. Only the
// story, review and estimate submissions start a session; every other route
// reads the caller's session if it has one.
func (h *StoryHandler) Routes(r *gin.Engine) {
	r.GET("/health", h.GetHealth)

	pages := r.Group("/", h.SessionMiddleware)
	router.Register(pages, h.ViewContext)

	api := r.Group("/api", h.SessionMiddleware)
	api.POST("/stories", h.SubmitStory)
	api.GET("/analysis", h.GetAnalysis)
	api.DELETE("/analysis", h.ClearAnalysis)
	api.POST("/review", h.ReviewStory)
	api.POST("/estimate", h.EstimateDays)
	api.GET("/theme", h.GetTheme)
	api.POST("/theme/toggle", h.ToggleTheme)
	api.DELETE("/session", h.EndSession)
}

// SessionMiddleware attaches the caller's live session, if any. It never
// creates one.
func (h *StoryHandler) SessionMiddleware(c *gin.Context) {
	if c.Request.Method == http.MethodOptions {
		c.Next()
		return
	}
	if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
		if s, ok := h.sessions.Get(id); ok {
			c.Set(sessionKey, s)
		}
	}
	c.Next()
}

// currentSession returns the caller's session, or nil
func currentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		return v.(*session.Session)
	}
	return nil
}

// ensureSession returns the caller's session, starting one and setting the
// cookie when there is none
func (h *StoryHandler) ensureSession(c *gin.Context) *session.Session {
	if s := currentSession(c); s != nil {
		return s
	}
	s := h.sessions.Create()
	c.SetCookie(SessionCookie, s.ID(), 0, "/", "", false, true)
	c.Set(sessionKey, s)
	return s
}

// ViewContext builds the view context for a request. "?reset=1" on the home
// page clears the held analysis first.
func (h *StoryHandler) ViewContext(c *gin.Context) views.Context {
	s := currentSession(c)
	if s != nil && c.FullPath() == "/" && c.Query("reset") == "1" {
		s.Reset()
	}
	return views.Context{Session: s, Dark: h.theme.IsDark()}
}

// SubmitStory analyzes a story and stores the view-model in the session
func (h *StoryHandler) SubmitStory(c *gin.Context) {
	var story models.Story
	if err := c.ShouldBindJSON(&story); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid story: " + err.Error()})
		return
	}
	if err := services.NormalizeStory(&story); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.stories.SubmitStoryForAgileReview(c.Request.Context(), &story)
	if err != nil {
		h.remoteError(c, err)
		return
	}

	h.ensureSession(c).SetAnalysis(view)
	c.JSON(http.StatusOK, view)
}

// GetAnalysis returns the session's view-model
func (h *StoryHandler) GetAnalysis(c *gin.Context) {
	var view *models.AnalysisView
	if s := currentSession(c); s != nil {
		view = s.Analysis()
	}
	if view == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no analysis in this session"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// ClearAnalysis drops the session's view-model
func (h *StoryHandler) ClearAnalysis(c *gin.Context) {
	if s := currentSession(c); s != nil {
		s.ClearAnalysis()
	}
	c.Status(http.StatusNoContent)
}

// ReviewStory runs the GraphQL review and stores it in the session
func (h *StoryHandler) ReviewStory(c *gin.Context) {
	var input models.StoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid story input: " + err.Error()})
		return
	}
	if strings.TrimSpace(input.Story) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "story text is required"})
		return
	}

	review, err := h.reviewer.ReviewStory(c.Request.Context(), &input)
	if err != nil {
		h.remoteError(c, err)
		return
	}

	h.ensureSession(c).SetReview(review)
	c.JSON(http.StatusOK, review)
}

// EstimateDays collects team day estimates and stores them in the session
func (h *StoryHandler) EstimateDays(c *gin.Context) {
	var story models.Story
	if err := c.ShouldBindJSON(&story); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid story: " + err.Error()})
		return
	}
	if err := services.NormalizeStory(&story); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	estimates, err := h.estimator.EstimateDays(c.Request.Context(), &story)
	if err != nil {
		h.remoteError(c, err)
		return
	}

	h.ensureSession(c).SetEstimates(estimates)
	c.JSON(http.StatusOK, estimates)
}

// GetTheme returns the current theme
func (h *StoryHandler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": h.theme.Name(), "dark": h.theme.IsDark(), "class": h.theme.Class()})
}

// ToggleTheme flips and persists the theme
func (h *StoryHandler) ToggleTheme(c *gin.Context) {
	if _, err := h.theme.Toggle(c.Request.Context()); err != nil {
		h.logger.Error("error persisting theme", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save theme"})
		return
	}
	h.GetTheme(c)
}

// EndSession destroys the caller's session
func (h *StoryHandler) EndSession(c *gin.Context) {
	if s := currentSession(c); s != nil {
		h.sessions.End(s.ID())
	}
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// GetHealth reports liveness
func (h *StoryHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.sessions.Len()})
}

func (h *StoryHandler) remoteError(c *gin.Context, err error) {
	var statusErr *repositories.StatusError
	var gqlErr *repositories.GraphQLError
	switch {
	case errors.As(err, &statusErr):
		h.logger.Warn("analysis service returned an error", zap.Int("status", statusErr.StatusCode))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "upstream_status": statusErr.StatusCode})
	case errors.As(err, &gqlErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled):
		c.Status(499)
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
