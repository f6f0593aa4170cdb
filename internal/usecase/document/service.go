package document

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

// Mode is the routing decision a Service latches at construction.
type Mode string

const (
	// ModeBackend routes documents and queries to the remote vector index.
	ModeBackend Mode = "backend"
	// ModeFallback keeps documents in process and searches them by substring.
	ModeFallback Mode = "fallback"
)

const (
	defaultSearchLimit = 2
	defaultInitTimeout = 5 * time.Second
)

// Config holds Service construction settings.
type Config struct {
	// Driver names the backend in logs, metrics and status ("memory" when Backend is nil).
	Driver string
	// InitTimeout bounds backend initialisation.
	InitTimeout time.Duration
	// DefaultLimit is the nearest-neighbour count used when Search gets limit <= 0.
	DefaultLimit int
	// MaxLimit caps the nearest-neighbour count. Zero means no cap.
	MaxLimit int
	Logger   *zap.Logger
}

// Service is the document store. It owns the id counter, the optional
// backend handle and the fallback list for its whole lifetime.
type Service struct {
	embedder     domain.Embedder
	backend      VectorIndex // nil in fallback mode
	mode         Mode
	driver       string
	defaultLimit int
	maxLimit     int
	logger       *zap.Logger

	addMu sync.Mutex // serialises id assignment together with the write
	count int

	mu       sync.RWMutex
	fallback []string
}

// New creates a document store and resolves its mode once: backend when
// backend.Init succeeds within cfg.InitTimeout, fallback otherwise. A nil
// backend selects fallback directly. Initialisation failure is logged,
// never returned, and the backend is not contacted again.
func New(ctx context.Context, embedder domain.Embedder, backend VectorIndex, cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := cfg.DefaultLimit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	initTimeout := cfg.InitTimeout
	if initTimeout <= 0 {
		initTimeout = defaultInitTimeout
	}
	driver := cfg.Driver
	if driver == "" {
		driver = "memory"
	}

	s := &Service{
		embedder:     embedder,
		mode:         ModeFallback,
		driver:       driver,
		defaultLimit: limit,
		maxLimit:     cfg.MaxLimit,
		logger:       logger,
		fallback:     []string{},
	}

	if backend != nil {
		initCtx, cancel := context.WithTimeout(ctx, initTimeout)
		err := backend.Init(initCtx, embedder.Dimensions())
		cancel()

		if err != nil {
			logger.Warn("Vector backend unavailable, using in-memory fallback for the process lifetime",
				zap.String("driver", driver),
				zap.Duration("init_timeout", initTimeout),
				zap.Error(err),
			)
		} else {
			s.backend = backend
			s.mode = ModeBackend
		}
	}

	if s.mode == ModeBackend {
		metrics.StoreBackendReady.WithLabelValues(driver).Set(1)
		logger.Info("Document store ready",
			zap.String("mode", string(s.mode)),
			zap.String("driver", driver),
			zap.Int("dimensions", embedder.Dimensions()),
		)
	} else {
		metrics.StoreBackendReady.WithLabelValues(driver).Set(0)
		logger.Info("Document store ready",
			zap.String("mode", string(s.mode)),
			zap.String("driver", driver),
		)
	}
	metrics.StoreFallbackDocuments.Set(0)

	return s
}

// Add stores text and returns its id, the number of documents stored before it.
// The count advances only after the write succeeds, so failed adds leave no gap.
// Backend failures are returned wrapped in domain.ErrStorage.
func (s *Service) Add(ctx context.Context, text string) (int, error) {
	s.addMu.Lock()
	defer s.addMu.Unlock()

	id := s.count
	vector := s.embedder.Embed(text)

	if s.backend != nil {
		doc := domain.Document{ID: id, Text: text, Vector: vector}
		if err := s.backend.Upsert(ctx, doc); err != nil {
			metrics.StoreOperationsTotal.WithLabelValues("add", string(s.mode), "error").Inc()
			s.logger.Error("Document upsert failed",
				zap.Int("id", id),
				zap.String("driver", s.driver),
				zap.Error(err),
			)
			return 0, fmt.Errorf("add document %d: %w: %w", id, domain.ErrStorage, err)
		}
	} else {
		s.mu.Lock()
		s.fallback = append(s.fallback, text)
		n := len(s.fallback)
		s.mu.Unlock()
		metrics.StoreFallbackDocuments.Set(float64(n))
	}

	s.count++
	metrics.StoreOperationsTotal.WithLabelValues("add", string(s.mode), "success").Inc()
	return id, nil
}

// Search returns matching document texts, most relevant first.
//
// Backend mode: the limit nearest documents by cosine similarity; limit <= 0
// selects the configured default and a limit above MaxLimit is capped.
// Fallback mode: every document containing query case-insensitively, in
// insertion order, with limit ignored. No match in a non-empty store yields
// the first stored document; an empty store yields an empty slice.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if s.backend == nil {
		res := s.searchFallback(query)
		metrics.StoreOperationsTotal.WithLabelValues("search", string(s.mode), "success").Inc()
		return res, nil
	}

	if limit <= 0 {
		limit = s.defaultLimit
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}

	texts, err := s.backend.Search(ctx, s.embedder.Embed(query), limit)
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("search", string(s.mode), "error").Inc()
		s.logger.Error("Vector search failed",
			zap.String("driver", s.driver),
			zap.Int("limit", limit),
			zap.Error(err),
		)
		return nil, fmt.Errorf("search: %w: %w", domain.ErrStorage, err)
	}
	if texts == nil {
		texts = []string{}
	}

	metrics.StoreOperationsTotal.WithLabelValues("search", string(s.mode), "success").Inc()
	return texts, nil
}

func (s *Service) searchFallback(query string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.fallback) == 0 {
		return []string{}
	}

	q := strings.ToLower(query)
	matches := make([]string, 0)
	for _, doc := range s.fallback {
		if strings.Contains(strings.ToLower(doc), q) {
			matches = append(matches, doc)
		}
	}
	if len(matches) == 0 {
		return []string{s.fallback[0]}
	}
	return matches
}

// Status returns a snapshot of the store state.
func (s *Service) Status() domain.StoreStatus {
	if s.backend != nil {
		return domain.StoreStatus{BackendReady: true}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.StoreStatus{FallbackDocCount: len(s.fallback)}
}

// Mode returns the routing mode resolved at construction.
func (s *Service) Mode() Mode {
	return s.mode
}

// Driver returns the configured backend driver name.
func (s *Service) Driver() string {
	return s.driver
}

// DefaultLimit returns the nearest-neighbour count used when callers pass no limit.
func (s *Service) DefaultLimit() int {
	return s.defaultLimit
}
