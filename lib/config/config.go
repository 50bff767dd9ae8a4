// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigEnv names the environment variable holding the config path.
	ConfigEnv = "THEMESYNC_CONFIG"

	// TokenEnv names the environment variable holding the access token.
	// It takes precedence over access_token_file.
	TokenEnv = "THEMESYNC_ACCESS_TOKEN"
)

// Config is the themesync configuration.
type Config struct {
	// APIRoot is the URL of the platform's API root entity.
	APIRoot string `yaml:"api_root"`

	// AccessTokenFile holds a bearer token on its first line.
	AccessTokenFile string `yaml:"access_token_file"`

	// RequestTimeout bounds each API request, from connecting until the
	// response body is read.
	// Default: 30s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Concurrency bounds parallel asset transfers.
	// Default: 10
	Concurrency int `yaml:"concurrency"`

	// Fetch configures asset downloads.
	Fetch FetchConfig `yaml:"fetch"`

	// LogLevel is one of debug, info, warn, error.
	// Default: warn
	LogLevel string `yaml:"log_level"`

	// path is the file the config was loaded from, empty for defaults.
	path string
}

// FetchConfig configures asset downloads.
type FetchConfig struct {
	// Timeout bounds connecting and each read.
	// Default: 5s
	Timeout time.Duration `yaml:"timeout"`

	// Attempts is the total number of tries for a timed-out download.
	// Default: 3
	Attempts int `yaml:"attempts"`

	// InsecureTLSFallback retries a download once without certificate
	// verification when verification fails. A warning is logged each
	// time.
	// Default: false
	InsecureTLSFallback bool `yaml:"insecure_tls_fallback"`
}

// Default returns the default configuration, the base every file is
// merged into.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		APIRoot:         "https://api.shopfront.example/v1",
		AccessTokenFile: filepath.Join(homeDir, ".config", "themesync", "token"),
		RequestTimeout:  30 * time.Second,
		Concurrency:     10,
		Fetch: FetchConfig{
			Timeout:  5 * time.Second,
			Attempts: 3,
		},
		LogLevel: "warn",
	}
}

// DefaultPath returns ~/.config/themesync/config.yaml.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "themesync", "config.yaml")
}

// Load loads the file named by THEMESYNC_CONFIG, or the default path
// when that exists, or returns the defaults.
func Load() (*Config, error) {
	if path := os.Getenv(ConfigEnv); path != "" {
		return LoadFile(path)
	}
	if path := DefaultPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	cfg := Default()
	cfg.expandVariables()
	return cfg, nil
}

// LoadFile loads configuration from a specific file path. The file must
// exist.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.path = path
	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the file the configuration was loaded from, or "" when
// it holds defaults.
func (c *Config) Path() string { return c.path }

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.AccessTokenFile = expandVars(c.AccessTokenFile, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.APIRoot == "" {
		errs = append(errs, errors.New("api_root is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be positive, got %d", c.Concurrency))
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout))
	}
	if c.Fetch.Attempts < 1 {
		errs = append(errs, fmt.Errorf("fetch.attempts must be at least 1, got %d", c.Fetch.Attempts))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Level returns the configured log level, warn if it does not parse.
func (c *Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log_level must be one of debug, info, warn, error: got %q", name)
	}
	return level, nil
}

// ErrNoAccessToken is returned by AccessToken when neither the
// environment nor the token file provides a token.
var ErrNoAccessToken = errors.New("no access token")

// AccessToken returns the bearer token from THEMESYNC_ACCESS_TOKEN, or
// the first line of the token file.
func (c *Config) AccessToken() (string, error) {
	if token := strings.TrimSpace(os.Getenv(TokenEnv)); token != "" {
		return token, nil
	}
	if c.AccessTokenFile == "" {
		return "", fmt.Errorf("%w: set %s or access_token_file", ErrNoAccessToken, TokenEnv)
	}
	data, err := os.ReadFile(c.AccessTokenFile)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: set %s or create %s", ErrNoAccessToken, TokenEnv, c.AccessTokenFile)
	}
	if err != nil {
		return "", fmt.Errorf("reading access token: %w", err)
	}
	token, _, _ := strings.Cut(string(data), "\n")
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNoAccessToken, c.AccessTokenFile)
	}
	return token, nil
}
