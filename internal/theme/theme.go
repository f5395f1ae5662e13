// Package theme tracks the light/dark preference and applies it to output.
package theme

import (
	"context"
	"fmt"
	"sync"

	"story-analyzer/internal/helpers"
	"story-analyzer/internal/settings"
)

// Theme values as stored in settings
const (
	Light = "light"
	Dark  = "dark"
)

// DarkClass is the presentation class applied when dark mode is on
const DarkClass = "dark"

// Applier reflects the dark flag onto whatever is being rendered
type Applier interface {
	Apply(dark bool)
}

// ApplierFunc adapts a function to Applier
type ApplierFunc func(dark bool)

// Apply calls f
func (f ApplierFunc) Apply(dark bool) { f(dark) }

// Theme is the dark-mode flag backed by settings storage
type Theme struct {
	store   settings.Store
	applier Applier

	// toggleMu spans the flip and the write
	toggleMu sync.Mutex

	mu   sync.RWMutex
	dark bool
}

// New reads the stored theme once and applies it. Anything other than "dark"
// counts as light.
func New(ctx context.Context, store settings.Store, applier Applier) (*Theme, error) {
	values, err := settings.Load(ctx, store)
	if err != nil {
		return nil, err
	}

	t := &Theme{
		store:   store,
		applier: applier,
		dark:    values[settings.KeyTheme] == Dark,
	}
	t.apply(t.dark)
	return t, nil
}

// IsDark reports whether dark mode is on
func (t *Theme) IsDark() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.dark
}

// Name returns "dark" or "light"
func (t *Theme) Name() string {
	return name(t.IsDark())
}

// Class returns the document class for the current theme
func (t *Theme) Class() string {
	if t.IsDark() {
		return DarkClass
	}
	return ""
}

// Toggle flips the flag, persists it and applies it. The flag is flipped even
// when persisting fails. Toggles are serialized so the stored value always
// matches the last flip.
func (t *Theme) Toggle(ctx context.Context) (bool, error) {
	t.toggleMu.Lock()
	defer t.toggleMu.Unlock()

	t.mu.Lock()
	t.dark = !t.dark
	dark := t.dark
	t.mu.Unlock()

	t.apply(dark)

	if err := t.store.Set(ctx, settings.KeyTheme, name(dark)); err != nil {
		return dark, fmt.Errorf("failed to persist theme: %w", err)
	}
	return dark, nil
}

func (t *Theme) apply(dark bool) {
	if t.applier != nil {
		t.applier.Apply(dark)
	}
}

func name(dark bool) string {
	if dark {
		return Dark
	}
	return Light
}

// ConsoleApplier switches the console palette
var ConsoleApplier = ApplierFunc(func(dark bool) {
	if dark {
		helpers.SetPalette(helpers.DarkPalette)
		return
	}
	helpers.SetPalette(helpers.LightPalette)
})
