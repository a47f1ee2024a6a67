// Package config provides configuration management for emotesync.
// It supports a YAML configuration file, environment variables, and
// sensible defaults.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/emote-tools/emotesync/internal/seventv"
)

// Config represents the complete emotesync configuration.
type Config struct {
	// API configures the 7TV endpoint and transport behavior
	API APIConfig `yaml:"api"`

	// Auth configures token persistence
	Auth AuthConfig `yaml:"auth"`

	// Retry configures the executor's retry policy
	Retry RetryConfig `yaml:"retry"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output"`
}

// APIConfig holds 7TV API settings.
type APIConfig struct {
	// Endpoint is the GraphQL endpoint URL
	Endpoint string `yaml:"endpoint"`
	// Timeout bounds a single API round trip
	Timeout time.Duration `yaml:"timeout"`
}

// AuthConfig holds credential settings.
type AuthConfig struct {
	// TokenFile is where the 7TV token is persisted
	TokenFile string `yaml:"token_file"`
}

// RetryConfig holds retry policy settings for transient API failures.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts per emote (not per call)
	MaxAttempts int `yaml:"max_attempts"`
	// FirstDelay is the wait before the first retry
	FirstDelay time.Duration `yaml:"first_delay"`
	// LaterDelay is the wait before every subsequent retry
	LaterDelay time.Duration `yaml:"later_delay"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Color controls color output (auto, always, never)
	Color string `yaml:"color"`
	// Verbose enables verbose output
	Verbose bool `yaml:"verbose"`
}

// Default returns the default configuration. The retry constants match
// the upstream tool: five total attempts, a 30s wait before the first
// retry and 45s before every later one.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Endpoint: seventv.DefaultEndpoint,
			Timeout:  seventv.DefaultTimeout,
		},
		Auth: AuthConfig{
			TokenFile: filepath.Join(Dir(), "token.txt"),
		},
		Retry: RetryConfig{
			MaxAttempts: 5,
			FirstDelay:  30 * time.Second,
			LaterDelay:  45 * time.Second,
		},
		Output: OutputConfig{
			Color:   "auto",
			Verbose: false,
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// Dir returns the emotesync configuration directory.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".emotesync")
}

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), configFileName)
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	return LoadFromPath(FilePath())
}

// LoadFromPath loads configuration from a specific path, merging with
// defaults and environment overrides. A missing file is not an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path comes from the config directory or the caller
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern EMOTESYNC_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("EMOTESYNC_API_ENDPOINT"); v != "" {
		c.API.Endpoint = v
	}
	if v := os.Getenv("EMOTESYNC_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.API.Timeout = d
		}
	}

	if v := os.Getenv("EMOTESYNC_AUTH_TOKEN_FILE"); v != "" {
		c.Auth.TokenFile = v
	}

	if v := os.Getenv("EMOTESYNC_RETRY_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Retry.MaxAttempts = n
		}
	}
	if v := os.Getenv("EMOTESYNC_RETRY_FIRST_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Retry.FirstDelay = d
		}
	}
	if v := os.Getenv("EMOTESYNC_RETRY_LATER_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Retry.LaterDelay = d
		}
	}

	if v := os.Getenv("EMOTESYNC_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
	if v := os.Getenv("EMOTESYNC_OUTPUT_VERBOSE"); v != "" {
		c.Output.Verbose = parseBool(v)
	}
}

// parseBool interprets common truthy strings.
func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
