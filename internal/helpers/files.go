package helpers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// SaveJSON saves data as JSON to a file
func SaveJSON(data interface{}, filepath string) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(filepath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// LoadJSON loads JSON data from a file
func LoadJSON(filepath string, target interface{}) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return nil
}

// SaveYAML saves data as YAML to a file
func SaveYAML(data interface{}, filepath string) error {
	yamlData, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filepath, yamlData, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// LoadYAML loads YAML (or JSON) data from a file
func LoadYAML(filepath string, target interface{}) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return nil
}

// EnsureDir ensures a directory exists
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// TimestampLayout names saved analyses so they sort by creation time
const TimestampLayout = "20060102-150405"

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// OutputPath returns dir/<prefix>-<timestamp>.<ext>. The prefix is lowered and
// anything outside [a-z0-9] collapses to a single dash.
func OutputPath(outputDir, prefix, extension string, at time.Time) string {
	slug := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(prefix), "-"), "-")
	if slug == "" {
		slug = "analysis"
	}
	name := fmt.Sprintf("%s-%s.%s", slug, at.Format(TimestampLayout), strings.TrimPrefix(extension, "."))
	return filepath.Join(outputDir, name)
}

// FileExists checks if a file exists
func FileExists(filepath string) bool {
	_, err := os.Stat(filepath)
	return !os.IsNotExist(err)
}
