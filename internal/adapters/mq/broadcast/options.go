package broadcast

// Option applies a configuration option to a Hub.
type Option func(*config)

type config struct {
	bufferSize int
}

// WithBufferSize sets the per-subscriber channel buffer.
func WithBufferSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.bufferSize = size
		}
	}
}
