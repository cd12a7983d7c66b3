package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override the file configuration.
const (
	EnvMode    = "MODE"
	EnvBaseURL = "SPOTIFY_BASE_URL"
	EnvConfig  = "WRAPPED_CONFIG"
)

// ModeMock selects the fixture-backed HTTP provider.
const ModeMock = "mock"

const (
	DefaultBaseURL = "http://localhost:7777/v1"
	DefaultTimeout = 10 * time.Second
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Provider ProviderConfig `toml:"provider"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Fixtures ServerConfig   `toml:"fixtures"`
}

// ProviderConfig selects and configures the data provider.
type ProviderConfig struct {
	Mode              string  `toml:"mode"`
	BaseURL           string  `toml:"base_url"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Timeout returns the per-request timeout, falling back to [DefaultTimeout].
func (p ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// NormalizedMode returns the mode lower-cased and trimmed, defaulting to [ModeMock].
func (p ProviderConfig) NormalizedMode() string {
	mode := strings.ToLower(strings.TrimSpace(p.Mode))
	if mode == "" {
		return ModeMock
	}
	return mode
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides provider settings from [EnvMode] and [EnvBaseURL] when they are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if mode := getenv(EnvMode); mode != "" {
		c.Provider.Mode = mode
	}
	if baseURL := getenv(EnvBaseURL); baseURL != "" {
		c.Provider.BaseURL = baseURL
	}
}

// Resolve loads the config at path when it exists, falls back to defaults otherwise, and applies env overrides.
//
// A path named by [EnvConfig] replaces path and must exist; a missing file there returns [ErrMissingConfig].
func Resolve(path string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	required := false
	if explicit := getenv(EnvConfig); explicit != "" {
		path, required = explicit, true
	}

	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		} else if required {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
	}
	config.ApplyEnv(getenv)
	return config, nil
}
