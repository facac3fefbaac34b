package demo

import "errors"

var (
	// ErrServe is returned when the demo listener fails.
	ErrServe = errors.New("demo endpoint serve failed")
)
