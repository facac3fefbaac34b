package demo

import (
	"github.com/okian/healthui/pkg/logger"
)

// Option configures an Endpoint.
type Option func(*Endpoint)

// WithChecks replaces the simulated check names.
func WithChecks(names ...string) Option {
	return func(e *Endpoint) {
		if len(names) > 0 {
			e.checks = append([]string(nil), names...)
		}
	}
}

// WithFlapRate sets the probability, per request and per check, that a check
// reports DOWN.
func WithFlapRate(p float64) Option {
	return func(e *Endpoint) {
		e.flapRate = clamp(p)
	}
}

// WithMalformedRate sets the probability that a response body is truncated.
func WithMalformedRate(p float64) Option {
	return func(e *Endpoint) {
		e.malformedRate = clamp(p)
	}
}

// WithRandom overrides the source of values in [0,1).
func WithRandom(fn func() float64) Option {
	return func(e *Endpoint) {
		if fn != nil {
			e.random = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Endpoint) {
		e.logger = l
	}
}

func clamp(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
