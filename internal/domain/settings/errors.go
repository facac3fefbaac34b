package settings

import "errors"

// Sentinel kinds for settings errors.
var (
	ErrNoStore = errors.New("settings store not configured")
	ErrSave    = errors.New("save settings failed")
)
