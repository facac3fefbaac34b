package settings

import "time"

// Poll labels, as shown to the user.
const (
	PollOff            = "off"
	PollEvery5Seconds  = "every 5 seconds"
	PollEvery10Seconds = "every 10 seconds"
	PollEvery30Seconds = "every 30 seconds"
	PollEveryMinute    = "every minute"
	PollEvery5Minutes  = "every 5 minutes"
	PollEvery10Minutes = "every 10 minutes"
)

var intervals = map[string]time.Duration{
	PollOff:            0,
	PollEvery5Seconds:  5 * time.Second,
	PollEvery10Seconds: 10 * time.Second,
	PollEvery30Seconds: 30 * time.Second,
	PollEveryMinute:    time.Minute,
	PollEvery5Minutes:  5 * time.Minute,
	PollEvery10Minutes: 10 * time.Minute,
}

// PollLabels lists the vocabulary in display order.
func PollLabels() []string {
	return []string{
		PollOff,
		PollEvery5Seconds,
		PollEvery10Seconds,
		PollEvery30Seconds,
		PollEveryMinute,
		PollEvery5Minutes,
		PollEvery10Minutes,
	}
}

// ParseInterval returns the cadence for label. Unknown labels disable
// polling.
func ParseInterval(label string) time.Duration {
	return intervals[label]
}

// IsKnownPoll reports whether label belongs to the vocabulary.
func IsKnownPoll(label string) bool {
	_, ok := intervals[label]
	return ok
}
