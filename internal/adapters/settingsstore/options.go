package settingsstore

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Default store configuration constants.
const (
	defaultKeyPrefix    = "healthui:"
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
	defaultPoolSize     = 4
)

type options struct {
	backend       string
	path          string
	redisAddr     string
	redisPassword string
	redisDB       int
	keyPrefix     string
	redisClient   redis.UniversalClient
}

func newOptions(opts ...Option) *options {
	o := &options{
		backend:   BackendMemory,
		redisAddr: "localhost:6379",
		keyPrefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option applies a configuration option to Open.
type Option func(*options)

// WithBackend selects the backend: memory, file, sqlite or redis.
func WithBackend(backend string) Option {
	return func(o *options) {
		if backend != "" {
			o.backend = backend
		}
	}
}

// WithPath sets the file or database path for the file and sqlite backends.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithRedisAddr sets the redis host:port.
func WithRedisAddr(addr string) Option {
	return func(o *options) {
		if addr != "" {
			o.redisAddr = addr
		}
	}
}

// WithRedisPassword sets the redis password.
func WithRedisPassword(password string) Option {
	return func(o *options) {
		o.redisPassword = password
	}
}

// WithRedisDB selects the redis logical database.
func WithRedisDB(db int) Option {
	return func(o *options) {
		if db >= 0 {
			o.redisDB = db
		}
	}
}

// WithKeyPrefix sets the prefix prepended to every redis key.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		o.keyPrefix = prefix
	}
}

// WithRedisClient injects an existing client instead of dialing one.
func WithRedisClient(client redis.UniversalClient) Option {
	return func(o *options) {
		if client != nil {
			o.redisClient = client
		}
	}
}
