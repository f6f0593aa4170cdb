package document

import (
	"context"
	"sync"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// mockIndex implements VectorIndex for tests.
type mockIndex struct {
	initFn   func(ctx context.Context, dim int) error
	upsertFn func(ctx context.Context, doc domain.Document) error
	searchFn func(ctx context.Context, vector []float32, limit int) ([]string, error)

	mu       sync.Mutex
	upserted []domain.Document
}

func (m *mockIndex) Init(ctx context.Context, dim int) error {
	if m.initFn != nil {
		return m.initFn(ctx, dim)
	}
	return nil
}

func (m *mockIndex) Upsert(ctx context.Context, doc domain.Document) error {
	if m.upsertFn != nil {
		if err := m.upsertFn(ctx, doc); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.upserted = append(m.upserted, doc)
	m.mu.Unlock()
	return nil
}

func (m *mockIndex) Search(ctx context.Context, vector []float32, limit int) ([]string, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, vector, limit)
	}
	return []string{}, nil
}

// tripwireIndex fails Init and then fails the test on any further contact.
type tripwireIndex struct {
	t     *testing.T
	inits int
}

func (w *tripwireIndex) Init(_ context.Context, _ int) error {
	w.inits++
	return context.DeadlineExceeded
}

func (w *tripwireIndex) Upsert(_ context.Context, _ domain.Document) error {
	w.t.Error("backend contacted by Add after failed Init")
	return nil
}

func (w *tripwireIndex) Search(_ context.Context, _ []float32, _ int) ([]string, error) {
	w.t.Error("backend contacted by Search after failed Init")
	return nil, nil
}

// stubEmbedder maps every text to a vector holding its length.
type stubEmbedder struct {
	dim int
}

func (e stubEmbedder) Embed(text string) []float32 {
	v := make([]float32, e.dim)
	for i := range v {
		v[i] = float32(len(text))
	}
	return v
}

func (e stubEmbedder) Dimensions() int { return e.dim }

func newBackendService(t *testing.T) (*Service, *mockIndex) {
	t.Helper()
	idx := &mockIndex{}
	s := New(context.Background(), stubEmbedder{dim: 4}, idx, Config{Driver: "qdrant"})
	if s.Mode() != ModeBackend {
		t.Fatalf("expected backend mode, got %s", s.Mode())
	}
	return s, idx
}

func newFallbackService(t *testing.T) *Service {
	t.Helper()
	s := New(context.Background(), stubEmbedder{dim: 4}, nil, Config{})
	if s.Mode() != ModeFallback {
		t.Fatalf("expected fallback mode, got %s", s.Mode())
	}
	return s
}
