// Package config defines process configuration and its loading.
//
// Values are layered from defaults, an optional YAML file and environment
// variables. All functions accept context.Context first.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/okian/healthui/internal/domain/settings"
	"github.com/okian/healthui/pkg/logger"
)

// Settings backends understood by the settings store.
var backends = []string{"memory", "file", "sqlite", "redis"}

var logFormats = []string{logger.FormatText, logger.FormatJSON, logger.FormatConsole}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text, json or console output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// BaseURL resolves relative endpoint URLs. Empty means the dashboard's own
	// address.
	BaseURL string `koanf:"base_url"`

	// FetchTimeoutMS bounds one health request.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// SettingsBackend is one of memory, file, sqlite, redis. The default is
	// file so settings survive a restart; memory is opt-in.
	SettingsBackend string `koanf:"settings_backend"`
	SettingsPath    string `koanf:"settings_path"`

	RedisAddr      string `koanf:"redis_addr"`
	RedisPassword  string `koanf:"redis_password"`
	RedisDB        int    `koanf:"redis_db"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`

	// Defaults applied when the store holds no value.
	DefaultTitle string `koanf:"default_title"`
	DefaultURL   string `koanf:"default_url"`
	DefaultPoll  string `koanf:"default_poll"`

	// StreamBuffer is the per-client queue length of the view stream.
	StreamBuffer int `koanf:"stream_buffer"`

	// MetricsEnabled switches fetch metrics on; MetricsRefreshMS paces the
	// process gauges.
	MetricsEnabled   bool `koanf:"metrics_enabled"`
	MetricsRefreshMS int  `koanf:"metrics_refresh_ms"`
}

// New creates a Config holding the defaults.
func New(_ context.Context) *Config {
	d := settings.Defaults()
	return &Config{
		LogLevel:        "info",
		LogFormat:       logger.FormatText,
		Addr:            ":8080",
		FetchTimeoutMS:  5000,
		SettingsBackend: "file",
		SettingsPath:    DefaultSettingsPath(),
		RedisAddr:       "localhost:6379",
		RedisKeyPrefix:  "healthui:",
		DefaultTitle:    d.Title,
		DefaultURL:      d.EndpointURL,
		DefaultPoll:     d.Poll,
		StreamBuffer:    8,

		MetricsEnabled:   true,
		MetricsRefreshMS: 10_000,
	}
}

// DefaultSettingsPath is settings.yaml under the user's config directory,
// or under ./.healthui when that directory is unknown.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".healthui", "settings.yaml")
	}
	return filepath.Join(dir, "healthui", "settings.yaml")
}

// MetricsRefresh returns MetricsRefreshMS as a duration.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshMS) * time.Millisecond
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// Defaults returns the settings used where the store has nothing.
func (c *Config) Defaults() settings.Settings {
	return settings.Settings{Title: c.DefaultTitle, EndpointURL: c.DefaultURL, Poll: c.DefaultPoll}
}

// BaseURLFor returns BaseURL, or a loopback URL for addr when it is unset.
func (c *Config) BaseURLFor() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	host := c.Addr
	if strings.HasPrefix(host, ":") {
		host = "127.0.0.1" + host
	}
	return "http://" + host + "/"
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.FetchTimeoutMS <= 0:
		return fmt.Errorf("%w: fetch_timeout_ms must be positive, got %d", ErrInvalidConfig, c.FetchTimeoutMS)
	case c.MetricsRefreshMS <= 0:
		return fmt.Errorf("%w: metrics_refresh_ms must be positive, got %d", ErrInvalidConfig, c.MetricsRefreshMS)
	case c.StreamBuffer <= 0:
		return fmt.Errorf("%w: stream_buffer must be positive, got %d", ErrInvalidConfig, c.StreamBuffer)
	case !slices.Contains(logFormats, strings.ToLower(c.LogFormat)):
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	case !slices.Contains(backends, strings.ToLower(c.SettingsBackend)):
		return fmt.Errorf("%w: unknown settings_backend %q", ErrInvalidConfig, c.SettingsBackend)
	case c.needsPath() && c.SettingsPath == "":
		return fmt.Errorf("%w: settings_path is required for the %s backend", ErrInvalidConfig, c.SettingsBackend)
	case c.RedisDB < 0:
		return fmt.Errorf("%w: redis_db must not be negative", ErrInvalidConfig)
	case c.DefaultPoll != "" && !settings.IsKnownPoll(c.DefaultPoll):
		return fmt.Errorf("%w: unknown default_poll %q", ErrInvalidConfig, c.DefaultPoll)
	}
	return nil
}

func (c *Config) needsPath() bool {
	b := strings.ToLower(c.SettingsBackend)
	return b == "file" || b == "sqlite"
}
