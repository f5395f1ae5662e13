package session

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"story-analyzer/internal/models"
)

func TestSession_LastWriteWins(t *testing.T) {
	s := New()
	_, err := uuid.Parse(s.ID())
	require.NoError(t, err)
	assert.Nil(t, s.Analysis())

	first := &models.AnalysisView{Suggestions: map[string]string{"a": "1"}}
	second := &models.AnalysisView{Suggestions: map[string]string{"b": "2"}}

	s.SetAnalysis(first)
	s.SetAnalysis(second)
	assert.Same(t, second, s.Analysis())

	s.ClearAnalysis()
	assert.Nil(t, s.Analysis())
}

func TestSession_Reset(t *testing.T) {
	s := New()
	s.SetAnalysis(&models.AnalysisView{})
	s.SetReview(&models.StoryAnalysis{ID: "r"})
	s.SetEstimates(&models.DayEstimates{Average: 2})

	assert.Equal(t, "r", s.Review().ID)
	assert.Equal(t, 2.0, s.Estimates().Average)

	s.Reset()
	assert.Nil(t, s.Analysis())
	assert.Nil(t, s.Review())
	assert.Nil(t, s.Estimates())
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetAnalysis(&models.AnalysisView{})
		}()
		go func() {
			defer wg.Done()
			_ = s.Analysis()
		}()
	}
	wg.Wait()
	assert.NotNil(t, s.Analysis())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(DefaultIdleTTL)

	s := r.Create()
	got, ok := r.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Same(t, s, r.GetOrCreate(s.ID()))

	other := r.GetOrCreate("unknown")
	assert.NotEqual(t, s.ID(), other.ID())
	assert.Equal(t, 2, r.Len())

	s.SetAnalysis(&models.AnalysisView{})
	r.End(s.ID())
	_, ok = r.Get(s.ID())
	assert.False(t, ok)
	assert.Nil(t, s.Analysis())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_EvictsIdleSessions(t *testing.T) {
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(30 * time.Minute)
	r.now = func() time.Time { return clock }

	idle := r.Create()
	idle.SetAnalysis(&models.AnalysisView{})
	active := r.Create()

	clock = clock.Add(20 * time.Minute)
	_, ok := r.Get(active.ID())
	require.True(t, ok)

	clock = clock.Add(20 * time.Minute)
	_, ok = r.Get(idle.ID())
	assert.False(t, ok)
	assert.Nil(t, idle.Analysis())
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get(active.ID())
	require.True(t, ok)
	assert.Same(t, active, got)
}

func TestRegistry_CreateSweeps(t *testing.T) {
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(time.Minute)
	r.now = func() time.Time { return clock }

	for i := 0; i < 100; i++ {
		r.Create()
	}
	require.Equal(t, 100, r.Len())

	clock = clock.Add(2 * time.Minute)
	fresh := r.GetOrCreate("")
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, clock, fresh.LastAccess())
}

func TestRegistry_Sweep(t *testing.T) {
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(time.Minute)
	r.now = func() time.Time { return clock }
	r.Create()
	r.Create()

	assert.Equal(t, 0, r.Sweep())

	clock = clock.Add(time.Hour)
	assert.Equal(t, 2, r.Sweep())
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ZeroTTLNeverExpires(t *testing.T) {
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(0)
	r.now = func() time.Time { return clock }
	s := r.Create()

	clock = clock.Add(24 * 365 * time.Hour)
	_, ok := r.Get(s.ID())
	assert.True(t, ok)
}
