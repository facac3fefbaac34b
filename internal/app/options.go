package service

import (
	"time"

	"github.com/okian/healthui/internal/domain/settings"
	"github.com/okian/healthui/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaults sets the settings used for absent keys. Empty fields keep the
// built-in defaults.
func WithDefaults(d settings.Settings) Option {
	return func(s *Service) {
		s.defaults = d.Normalize()
	}
}

// WithPublisher sets where freshly applied views are sent.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithClock overrides the time source used to stamp views.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
