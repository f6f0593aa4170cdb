package ragdex

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/config"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	backend      config.BackendConfig
	dimensions   int
	defaultLimit int
	initTimeout  time.Duration
	logger       *zap.Logger
}

// WithRedis stores documents in a Redis 8+ instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend.Driver = config.DriverRedis
		c.backend.Addrs = []string{addr}
		c.backend.Password = password
	})
}

// WithValkey stores documents in a Valkey instance with valkey-search.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend.Driver = config.DriverValkey
		c.backend.Addrs = []string{addr}
		c.backend.Password = password
	})
}

// WithQdrant stores documents in a Qdrant collection reached over REST.
// apiKey may be empty.
func WithQdrant(url, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend.Driver = config.DriverQdrant
		c.backend.URL = url
		c.backend.APIKey = apiKey
	})
}

// WithCollection names the collection (or index prefix) documents go to.
func WithCollection(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend.Collection = name
	})
}

// WithInitTimeout bounds backend initialisation. After it expires the client
// keeps working from the in-memory fallback.
func WithInitTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.initTimeout = d
	})
}

// WithDimensions sets the embedding length.
func WithDimensions(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimensions = n
	})
}

// WithDefaultLimit sets how many documents Ask retrieves from a vector backend.
func WithDefaultLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = n
	})
}

// WithLogger sets the logger. Defaults to zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
