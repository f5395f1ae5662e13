// Package session holds per-user analysis state between views.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"story-analyzer/internal/models"
)

// Session holds the latest results for one user. Every setter replaces the
// previous value.
type Session struct {
	id        string
	createdAt time.Time

	mu         sync.RWMutex
	lastAccess time.Time
	analysis   *models.AnalysisView
	review     *models.StoryAnalysis
	estimates  *models.DayEstimates
}

// New starts a session with a fresh id
func New() *Session {
	now := time.Now()
	return &Session{
		id:         uuid.NewString(),
		createdAt:  now,
		lastAccess: now,
	}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns when the session started
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// LastAccess returns when the session was last looked up
func (s *Session) LastAccess() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastAccess
}

func (s *Session) touch(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = t
}

// SetAnalysis replaces the held view-model
func (s *Session) SetAnalysis(view *models.AnalysisView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysis = view
}

// ClearAnalysis drops the held view-model
func (s *Session) ClearAnalysis() {
	s.SetAnalysis(nil)
}

// Analysis returns the held view-model, or nil
func (s *Session) Analysis() *models.AnalysisView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analysis
}

// SetReview replaces the held GraphQL review
func (s *Session) SetReview(review *models.StoryAnalysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.review = review
}

// ClearReview drops the held review
func (s *Session) ClearReview() {
	s.SetReview(nil)
}

// Review returns the held review, or nil
func (s *Session) Review() *models.StoryAnalysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.review
}

// SetEstimates replaces the held day estimates
func (s *Session) SetEstimates(estimates *models.DayEstimates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.estimates = estimates
}

// ClearEstimates drops the held day estimates
func (s *Session) ClearEstimates() {
	s.SetEstimates(nil)
}

// Estimates returns the held day estimates, or nil
func (s *Session) Estimates() *models.DayEstimates {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.estimates
}

// Reset clears everything the session holds
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysis = nil
	s.review = nil
	s.estimates = nil
}
