package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config settings for the soldisplay binary
type Config struct {
	// Addr HTTP listen address
	Addr string `yaml:"addr"`

	// LogLevel one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	Reference Reference `yaml:"reference"`
}

// Reference settings for the market reference rate used by drift reports
type Reference struct {
	Enabled bool          `yaml:"enabled"`
	URL     string        `yaml:"url"`
	Refresh time.Duration `yaml:"refresh"`
	Timeout time.Duration `yaml:"timeout"`
}

var envFiles = []string{".env", ".env.local"}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Addr:     ":8080",
		LogLevel: "info",
		Reference: Reference{
			Enabled: false,
			URL:     "https://api.coinbase.com/v2",
			Refresh: 1 * time.Minute,
			Timeout: 5 * time.Second,
		},
	}
}

// Load layers defaults, the YAML file at path (skipped when empty), .env files and
// SOLDISPLAY_* environment variables, in that order, then validates the result.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	// each file is optional; godotenv stops at the first missing one
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	if err := c.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SOLDISPLAY_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("SOLDISPLAY_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SOLDISPLAY_REFERENCE_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SOLDISPLAY_REFERENCE_ENABLED: %w", err)
		}
		c.Reference.Enabled = b
	}
	if v := os.Getenv("SOLDISPLAY_REFERENCE_URL"); v != "" {
		c.Reference.URL = v
	}
	if v := os.Getenv("SOLDISPLAY_REFERENCE_REFRESH"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SOLDISPLAY_REFERENCE_REFRESH: %w", err)
		}
		c.Reference.Refresh = d
	}
	if v := os.Getenv("SOLDISPLAY_REFERENCE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SOLDISPLAY_REFERENCE_TIMEOUT: %w", err)
		}
		c.Reference.Timeout = d
	}
	return nil
}

// Validate checks the settings are usable
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if c.Reference.Enabled {
		if c.Reference.URL == "" {
			return fmt.Errorf("reference.url is required when reference is enabled")
		}
		if c.Reference.Refresh <= 0 {
			return fmt.Errorf("reference.refresh must be positive")
		}
		if c.Reference.Timeout <= 0 {
			return fmt.Errorf("reference.timeout must be positive")
		}
	}
	return nil
}
