// Package settings holds the three user preferences of the dashboard and
// the poll cadence vocabulary.
package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/healthui/pkg/logger"
	"github.com/okian/healthui/pkg/metrics"
)

// Store keys.
const (
	KeyTitle = "title"
	KeyURL   = "url"
	KeyPoll  = "poll"
)

// Defaults used when a key is absent or empty.
const (
	DefaultTitle = "Health UI"
	DefaultURL   = "/health"
	DefaultPoll  = PollOff
)

// Store is a persistent string key/value store. Get reports absence with
// ok == false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Settings are the user preferences that drive the poller.
type Settings struct {
	Title       string `json:"title"`
	EndpointURL string `json:"url"`
	Poll        string `json:"poll"`
}

// Defaults returns the settings used when nothing is stored.
func Defaults() Settings {
	return Settings{Title: DefaultTitle, EndpointURL: DefaultURL, Poll: DefaultPoll}
}

// Interval maps the poll label to its cadence, 0 when polling is off.
func (s Settings) Interval() time.Duration {
	return ParseInterval(s.Poll)
}

// Normalize replaces empty values with defaults.
func (s Settings) Normalize() Settings {
	return s.WithDefaults(Defaults())
}

// WithDefaults replaces empty values with the ones from d.
func (s Settings) WithDefaults(d Settings) Settings {
	if s.Title == "" {
		s.Title = d.Title
	}
	if s.EndpointURL == "" {
		s.EndpointURL = d.EndpointURL
	}
	if s.Poll == "" {
		s.Poll = d.Poll
	}
	return s
}

// Load reads the settings from store. Absent, empty or unreadable keys fall
// back to defaults; store failures are logged and never returned.
func Load(ctx context.Context, store Store, defaults Settings, log logger.Logger) Settings {
	s := Settings{
		Title:       read(ctx, store, KeyTitle, log),
		EndpointURL: read(ctx, store, KeyURL, log),
		Poll:        read(ctx, store, KeyPoll, log),
	}
	return s.WithDefaults(defaults.Normalize())
}

func read(ctx context.Context, store Store, key string, log logger.Logger) string {
	if store == nil {
		return ""
	}
	v, ok, err := store.Get(ctx, key)
	if err != nil {
		metrics.RecordSettingsError("get")
		log.Warn(ctx, "settings store read failed, using default", logger.String("key", key), logger.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

// Save writes next to store. The url key is only written when it differs
// from prev. Every write is attempted; the first error is returned.
func Save(ctx context.Context, store Store, prev, next Settings) error {
	if store == nil {
		return ErrNoStore
	}
	var first error
	set := func(key, value string) {
		if err := store.Set(ctx, key, value); err != nil {
			metrics.RecordSettingsError("set")
			if first == nil {
				first = fmt.Errorf("%w: %s: %w", ErrSave, key, err)
			}
		}
	}

	set(KeyTitle, next.Title)
	if next.EndpointURL != prev.EndpointURL {
		set(KeyURL, next.EndpointURL)
	}
	set(KeyPoll, next.Poll)
	return first
}
