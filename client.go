// Package ragdex embeds the ragdex document store and answer pipeline in a Go
// program without the HTTP server.
//
//	c, err := ragdex.New(ctx, ragdex.WithQdrant("http://localhost:6333", ""))
//	if err != nil { ... }
//	defer c.Close()
//	id, _ := c.Add(ctx, "Go channels are typed conduits")
//	ans, _ := c.Ask(ctx, "channels")
package ragdex

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/backend"
	"github.com/kailas-cloud/ragdex/internal/config"
	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
	documentuc "github.com/kailas-cloud/ragdex/internal/usecase/document"
	embeddinguc "github.com/kailas-cloud/ragdex/internal/usecase/embedding"
	"github.com/kailas-cloud/ragdex/internal/usecase/pipeline"
)

const (
	defaultCollection  = "demo_collection"
	defaultInitTimeout = 5 * time.Second
)

// Answer is the result of Ask.
type Answer struct {
	Question string
	Answer   string
	Context  []string
}

// Status reports which store the client latched onto.
type Status struct {
	BackendReady     bool
	FallbackDocCount int
	Driver           string
}

// Client is the ragdex SDK entry point. It is safe for concurrent use.
type Client struct {
	docs     *documentuc.Service
	pipeline *pipeline.Pipeline
	backend  backend.Backend
}

// New builds a client. Without a backend option, or when the backend cannot be
// initialised, the client keeps documents in memory for its whole lifetime;
// that is not an error. Errors report invalid options only.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		backend: config.BackendConfig{
			Driver:     config.DriverMemory,
			Collection: defaultCollection,
		},
		dimensions:  domain.DefaultDimensions,
		initTimeout: defaultInitTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	b := backend.Build(cfg.backend, logger)
	docs := documentuc.New(ctx, embeddinguc.NewGenerator(cfg.dimensions), b.Index, documentuc.Config{
		Driver:       cfg.backend.Driver,
		InitTimeout:  cfg.initTimeout,
		DefaultLimit: cfg.defaultLimit,
		Logger:       logger,
	})

	return &Client{
		docs:     docs,
		pipeline: pipeline.New(docs, docs.DefaultLimit(), logger),
		backend:  b,
	}, nil
}

func (c *clientConfig) validate() error {
	if c.dimensions <= 0 {
		return errors.New("ragdex: dimensions must be positive")
	}
	if c.defaultLimit < 0 {
		return errors.New("ragdex: default limit must not be negative")
	}
	if c.initTimeout <= 0 {
		return errors.New("ragdex: init timeout must be positive")
	}
	if c.backend.Collection == "" {
		return errors.New("ragdex: collection name is required")
	}
	switch c.backend.Driver {
	case config.DriverRedis, config.DriverValkey:
		if len(c.backend.Addrs) == 0 || c.backend.Addrs[0] == "" {
			return errors.New("ragdex: address is required for " + c.backend.Driver)
		}
		if !db.IsValidIdentifier(c.backend.Collection) {
			return errors.New("ragdex: collection name must match [a-zA-Z0-9_:-]+ for " + c.backend.Driver)
		}
	case config.DriverQdrant:
		if c.backend.URL == "" {
			return errors.New("ragdex: qdrant URL is required")
		}
	}
	return nil
}

// Add stores text and returns its id. Ids start at 0 and have no gaps.
func (c *Client) Add(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, ErrEmptyText
	}
	return c.docs.Add(ctx, text)
}

// Search returns documents relevant to query. limit applies to a vector
// backend only; limit <= 0 selects the default. The in-memory fallback returns
// every case-insensitive substring match.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]string, error) {
	return c.docs.Search(ctx, query, limit)
}

// Ask retrieves context for question and composes an answer from it.
func (c *Client) Ask(ctx context.Context, question string) (Answer, error) {
	st, err := c.pipeline.Ask(ctx, question)
	if err != nil {
		return Answer{}, err
	}
	return Answer{Question: st.Question, Answer: st.Answer, Context: st.Context}, nil
}

// Status returns the store mode and fallback document count.
func (c *Client) Status() Status {
	st := c.docs.Status()
	return Status{
		BackendReady:     st.BackendReady,
		FallbackDocCount: st.FallbackDocCount,
		Driver:           c.docs.Driver(),
	}
}

// Close releases the backend connection.
func (c *Client) Close() {
	c.backend.Close()
}
