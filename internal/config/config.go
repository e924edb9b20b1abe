// Package config provides configuration loading and validation for the API server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds the server settings. Values come from the environment, then
// an optional JSON file, then built-in defaults.
type Config struct {
	DatabaseURL       string `json:"database_url,omitempty"`        // PostgreSQL connection URL
	Port              int    `json:"port,omitempty"`                // HTTP listen port
	LogLevel          string `json:"log_level,omitempty"`           // logrus level name
	LogFormat         string `json:"log_format,omitempty"`          // "json" or "text"
	CORSAllowedOrigin string `json:"cors_allowed_origin,omitempty"` // Access-Control-Allow-Origin value
	ShutdownTimeout   int    `json:"shutdown_timeout_seconds,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:              8080,
		LogLevel:          "info",
		LogFormat:         "json",
		CORSAllowedOrigin: "*",
		ShutdownTimeout:   30,
	}
}

// Load builds the configuration from the environment, filling unset values
// from the JSON file at path (if any) and then from Defaults.
func Load(path string) (*Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if path != "" {
		file, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		merged := cfg.MergeWithDefaults(*file)
		cfg = &merged
	}

	result := cfg.MergeWithDefaults(Defaults())
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

// FromEnv reads DATABASE_URL, PORT, LOG_LEVEL, LOG_FORMAT, CORS_ALLOWED_ORIGIN
// and SHUTDOWN_TIMEOUT_SECONDS. Unset variables leave zero values.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		LogFormat:         os.Getenv("LOG_FORMAT"),
		CORSAllowedOrigin: os.Getenv("CORS_ALLOWED_ORIGIN"),
	}

	var err error
	if cfg.Port, err = envInt("PORT"); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = envInt("SHUTDOWN_TIMEOUT_SECONDS"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envInt(key string) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// LoadFile loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// DatabaseURL is not required here; see RequireDatabaseURL.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	if c.ShutdownTimeout < 1 {
		return fmt.Errorf("config error: 'shutdown_timeout_seconds' must be positive")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("config error: 'log_format' must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// RequireDatabaseURL fails when no database URL is configured.
func (c *Config) RequireDatabaseURL() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.CORSAllowedOrigin == "" {
		result.CORSAllowedOrigin = defaults.CORSAllowedOrigin
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.ShutdownTimeout == 0 {
		result.ShutdownTimeout = defaults.ShutdownTimeout
	}

	return result
}
