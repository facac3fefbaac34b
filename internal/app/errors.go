package service

import "errors"

// Sentinel errors for the poller service.
var (
	ErrNotStarted = errors.New("health poller not started")
	ErrNoFetcher  = errors.New("health poller has no fetcher")
)
