package scheduler

import (
	"github.com/okian/healthui/pkg/logger"
)

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithName sets the scheduler name for identification and logging.
func WithName(name string) Option {
	return func(s *Scheduler) {
		if name != "" {
			s.name = name
		}
	}
}

// WithLogger sets a custom logger for the scheduler.
func WithLogger(logger logger.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithImmediate fires one tick as soon as a schedule starts instead of
// waiting for the first interval to elapse.
func WithImmediate(immediate bool) Option {
	return func(s *Scheduler) {
		s.immediate = immediate
	}
}
