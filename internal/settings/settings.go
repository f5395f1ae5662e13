// Package settings persists small key-value client settings such as the theme.
package settings

import (
	"context"
	"fmt"

	"story-analyzer/internal/config"
)

// Keys understood by the client
const (
	KeyTheme = "theme"
)

// Defaults holds the value of every defined key when nothing is stored
var Defaults = map[string]string{
	KeyTheme: "light",
}

// Store is a persistent key-value store for settings
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Load reads every defined key once, filling defaults for missing ones
func Load(ctx context.Context, store Store) (map[string]string, error) {
	values := make(map[string]string, len(Defaults))
	for key, def := range Defaults {
		value, ok, err := store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read setting %q: %w", key, err)
		}
		if !ok {
			value = def
		}
		values[key] = value
	}
	return values, nil
}

// Open returns the store selected by the settings configuration
func Open(cfg *config.SettingsConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return NewFileStore(cfg.Path), nil
	case config.BackendRedis:
		return NewRedisStore(cfg.RedisURL)
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown settings backend %q", cfg.Backend)
	}
}
