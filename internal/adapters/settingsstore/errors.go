package settingsstore

import "errors"

// Sentinel kinds for settings store errors.
var (
	ErrUnknownBackend = errors.New("unknown settings backend")
	ErrInvalidOptions = errors.New("invalid settings store options")
	ErrClosed         = errors.New("settings store closed")
	ErrUnavailable    = errors.New("settings store unavailable")
)
