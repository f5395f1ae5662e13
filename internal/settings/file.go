package settings

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"story-analyzer/internal/helpers"
)

// FileStore keeps settings in a YAML file
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the stored value for key
func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// Set writes key to the file, keeping other keys
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value

	if err := helpers.EnsureDir(filepath.Dir(s.path)); err != nil {
		return err
	}
	if err := helpers.SaveYAML(values, s.path); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	values := make(map[string]string)
	if !helpers.FileExists(s.path) {
		return values, nil
	}
	if err := helpers.LoadYAML(s.path, &values); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}
