package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"story-analyzer/internal/transform"
)

// Defaults applied when the config file or a key is missing
const (
	DefaultBaseURL      = "http://localhost:8000"
	DefaultGraphQLPath  = "/graphql"
	DefaultServerAddr   = ":5173"
	DefaultOutputDir    = "output"
	DefaultOutputPrefix = "story-analysis"
	DefaultSessionIdle  = 60
	DefaultSettingsFile = "settings.yaml"
)

// Settings backends
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config represents the application configuration
type Config struct {
	API        APIConfig        `yaml:"api"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Settings   SettingsConfig   `yaml:"settings"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Processing ProcessingConfig `yaml:"processing"`
}

// APIConfig represents the analysis service configuration
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	GraphQLPath    string `yaml:"graphql_path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// AnalysisConfig represents transformer configuration
type AnalysisConfig struct {
	SuggestionPolicy string `yaml:"suggestion_policy"`
}

// SettingsConfig represents persisted settings storage configuration
type SettingsConfig struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path"`
	RedisURL string `yaml:"redis_url"`
}

// ServerConfig represents the local UI server configuration
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// SessionIdleMinutes evicts UI sessions untouched for this long
	SessionIdleMinutes int `yaml:"session_idle_minutes"`
}

// LoggingConfig represents structured logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// ProcessingConfig represents output configuration
type ProcessingConfig struct {
	OutputDir    string `yaml:"output_dir"`
	OutputPrefix string `yaml:"output_prefix"`
}

// Default returns a configuration with every default filled in
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads configuration from a YAML file. A missing file is not an
// error; defaults and environment overrides still apply.
func LoadConfig(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var config Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config.applyEnvOverrides()
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("STORY_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		c.Settings.RedisURL = url
	}
	if origin := os.Getenv("FRONTEND_URL"); origin != "" {
		c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, origin)
	}
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.GraphQLPath == "" {
		c.API.GraphQLPath = DefaultGraphQLPath
	}
	if c.Analysis.SuggestionPolicy == "" {
		c.Analysis.SuggestionPolicy = string(transform.PolicyDashList)
	}
	if c.Settings.Backend == "" {
		c.Settings.Backend = BackendFile
	}
	if c.Settings.Path == "" {
		c.Settings.Path = defaultSettingsPath()
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if c.Server.SessionIdleMinutes == 0 {
		c.Server.SessionIdleMinutes = DefaultSessionIdle
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Processing.OutputDir == "" {
		c.Processing.OutputDir = DefaultOutputDir
	}
	if c.Processing.OutputPrefix == "" {
		c.Processing.OutputPrefix = DefaultOutputPrefix
	}
}

func defaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultSettingsFile
	}
	return filepath.Join(home, ".story-analyzer", DefaultSettingsFile)
}

// Policy returns the configured suggestion policy
func (c *Config) Policy() transform.Policy {
	policy, err := transform.ParsePolicy(c.Analysis.SuggestionPolicy)
	if err != nil {
		return transform.PolicyDashList
	}
	return policy
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}

	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("API base URL must start with http:// or https://, got %q", c.API.BaseURL)
	}

	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("API timeout cannot be negative")
	}

	if c.Server.SessionIdleMinutes < 0 {
		return fmt.Errorf("session idle minutes cannot be negative")
	}
	if _, err := transform.ParsePolicy(c.Analysis.SuggestionPolicy); err != nil {
		return err
	}

	switch c.Settings.Backend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if c.Settings.RedisURL == "" {
			return fmt.Errorf("redis settings backend requires a redis URL")
		}
	default:
		return fmt.Errorf("unknown settings backend %q", c.Settings.Backend)
	}

	return nil
}
