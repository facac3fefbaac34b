package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrUnavailable = errors.New("poller unavailable")
	ErrHijack      = errors.New("response writer does not support hijacking")
)
