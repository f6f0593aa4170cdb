package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/domain"
	documentuc "github.com/kailas-cloud/ragdex/internal/usecase/document"
	"github.com/kailas-cloud/ragdex/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
	"github.com/kailas-cloud/ragdex/internal/usecase/pipeline"
)

// mockIndex implements documentuc.VectorIndex.
type mockIndex struct {
	initFn   func(ctx context.Context, dim int) error
	upsertFn func(ctx context.Context, doc domain.Document) error
	searchFn func(ctx context.Context, vector []float32, limit int) ([]string, error)
	pingFn   func(ctx context.Context) error
}

func (m *mockIndex) Init(ctx context.Context, dim int) error {
	if m.initFn != nil {
		return m.initFn(ctx, dim)
	}
	return nil
}

func (m *mockIndex) Upsert(ctx context.Context, doc domain.Document) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, doc)
	}
	return nil
}

func (m *mockIndex) Search(ctx context.Context, vector []float32, limit int) ([]string, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, vector, limit)
	}
	return []string{}, nil
}

func (m *mockIndex) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

type testEnv struct {
	handler   http.Handler
	documents *documentuc.Service
}

// newTestEnv wires the real services over idx. A nil idx yields a fallback-mode store.
func newTestEnv(t *testing.T, idx *mockIndex) *testEnv {
	t.Helper()

	var backend documentuc.VectorIndex
	var pinger healthuc.BackendPinger
	driver := "memory"
	if idx != nil {
		backend = idx
		pinger = idx
		driver = "qdrant"
	}

	docs := documentuc.New(context.Background(), embedding.NewGenerator(8), backend, documentuc.Config{Driver: driver})
	pipe := pipeline.New(docs, docs.DefaultLimit(), nil)
	health := healthuc.New(docs, pinger, true)

	return &testEnv{
		handler:   NewRouter(NewServer(docs, pipe, health, nil), nil),
		documents: docs,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}
