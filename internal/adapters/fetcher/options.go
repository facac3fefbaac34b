package fetcher

import (
	"net/url"
	"time"

	"github.com/imroc/req/v3"
	"github.com/okian/healthui/pkg/logger"
)

// Option applies a configuration option to the Fetcher.
type Option func(*Fetcher)

// WithTimeout bounds each request.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithBaseURL sets the URL relative endpoints are resolved against.
// Unparseable values are ignored.
func WithBaseURL(base string) Option {
	return func(f *Fetcher) {
		if base == "" {
			return
		}
		u, err := url.Parse(base)
		if err != nil || !u.IsAbs() {
			return
		}
		f.base = u
	}
}

// WithClient uses an existing req client.
func WithClient(client *req.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(f *Fetcher) {
		if agent != "" {
			f.agent = agent
		}
	}
}

// WithLogger sets a custom logger for the fetcher.
func WithLogger(l logger.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}
