package scheduler

import "errors"

// Sentinel errors for the scheduler.
var (
	ErrShutdownTimeout = errors.New("scheduler shutdown timed out")
)
