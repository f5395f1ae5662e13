package theme

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"story-analyzer/internal/helpers"
	"story-analyzer/internal/settings"
)

type recordingApplier struct {
	calls []bool
}

func (r *recordingApplier) Apply(dark bool) {
	r.calls = append(r.calls, dark)
}

type readOnlyStore struct {
	*settings.MemoryStore
}

func (readOnlyStore) Set(ctx context.Context, key, value string) error {
	return errors.New("read only")
}

func TestNew_DefaultsToLight(t *testing.T) {
	applier := &recordingApplier{}

	th, err := New(context.Background(), settings.NewMemoryStore(), applier)
	require.NoError(t, err)

	assert.False(t, th.IsDark())
	assert.Equal(t, Light, th.Name())
	assert.Equal(t, "", th.Class())
	assert.Equal(t, []bool{false}, applier.calls)
}

func TestNew_ReadsStoredValue(t *testing.T) {
	ctx := context.Background()
	store := settings.NewMemoryStore()
	require.NoError(t, store.Set(ctx, settings.KeyTheme, "dark"))

	th, err := New(ctx, store, nil)
	require.NoError(t, err)

	assert.True(t, th.IsDark())
	assert.Equal(t, DarkClass, th.Class())
}

func TestNew_UnknownValueIsLight(t *testing.T) {
	ctx := context.Background()
	store := settings.NewMemoryStore()
	require.NoError(t, store.Set(ctx, settings.KeyTheme, "solarized"))

	th, err := New(ctx, store, nil)
	require.NoError(t, err)
	assert.False(t, th.IsDark())
}

func TestToggle_PersistsAndApplies(t *testing.T) {
	ctx := context.Background()
	store := settings.NewMemoryStore()
	applier := &recordingApplier{}
	th, err := New(ctx, store, applier)
	require.NoError(t, err)

	dark, err := th.Toggle(ctx)
	require.NoError(t, err)
	assert.True(t, dark)

	stored, ok, err := store.Get(ctx, settings.KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Dark, stored)

	dark, err = th.Toggle(ctx)
	require.NoError(t, err)
	assert.False(t, dark)

	stored, _, _ = store.Get(ctx, settings.KeyTheme)
	assert.Equal(t, Light, stored)
	assert.Equal(t, []bool{false, true, false}, applier.calls)
}

// slowStore records every write and takes a moment to do it
type slowStore struct {
	*settings.MemoryStore

	mu     sync.Mutex
	writes []string
}

func (s *slowStore) Set(ctx context.Context, key, value string) error {
	time.Sleep(time.Millisecond)
	s.mu.Lock()
	s.writes = append(s.writes, value)
	s.mu.Unlock()
	return s.MemoryStore.Set(ctx, key, value)
}

func TestToggle_ConcurrentTogglesKeepStoreInSync(t *testing.T) {
	ctx := context.Background()
	store := &slowStore{MemoryStore: settings.NewMemoryStore()}
	th, err := New(ctx, store, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 21; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := th.Toggle(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, th.IsDark())
	stored, _, err := store.Get(ctx, settings.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, th.Name(), stored)

	require.Len(t, store.writes, 21)
	for i, w := range store.writes {
		want := Dark
		if i%2 == 1 {
			want = Light
		}
		assert.Equal(t, want, w, "write %d", i)
	}
}

func TestToggle_PersistError(t *testing.T) {
	th, err := New(context.Background(), readOnlyStore{settings.NewMemoryStore()}, nil)
	require.NoError(t, err)

	dark, err := th.Toggle(context.Background())
	assert.Error(t, err)
	assert.True(t, dark)
	assert.True(t, th.IsDark())
}

func TestConsoleApplier(t *testing.T) {
	t.Cleanup(func() { helpers.SetPalette(helpers.LightPalette) })

	ConsoleApplier.Apply(true)
	assert.Same(t, helpers.DarkPalette.Title, helpers.CurrentPalette().Title)

	ConsoleApplier.Apply(false)
	assert.Same(t, helpers.LightPalette.Title, helpers.CurrentPalette().Title)
}
