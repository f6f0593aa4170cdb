package vectorindex

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
)

// --- Init ---

func TestInit_RecreatesIndex(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	var calls []string
	ms.dropIndexFn = func(_ context.Context, name string, deleteDocs bool) error {
		calls = append(calls, "drop")
		if name != "ragdex:notes:idx" {
			t.Errorf("unexpected index name: %s", name)
		}
		if !deleteDocs {
			t.Error("expected stale documents to be dropped with the index")
		}
		return nil
	}
	ms.deleteByPrefixFn = func(_ context.Context, prefix string) (int, error) {
		calls = append(calls, "clear")
		if prefix != "ragdex:notes:" {
			t.Errorf("unexpected prefix: %s", prefix)
		}
		return 0, nil
	}
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		calls = append(calls, "create")
		if def.Name != "ragdex:notes:idx" {
			t.Errorf("unexpected index name: %s", def.Name)
		}
		if len(def.Prefixes) != 1 || def.Prefixes[0] != "ragdex:notes:" {
			t.Errorf("unexpected prefixes: %v", def.Prefixes)
		}
		return nil
	}

	if err := repo.Init(ctx, 128); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(calls, []string{"drop", "clear", "create"}) {
		t.Errorf("unexpected call order: %v", calls)
	}
}

func TestInit_FreshServer(t *testing.T) {
	repo, ms := newTestRepo(t)

	created := false
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		created = true
		return nil
	}

	// default mock DropIndex reports ErrIndexNotFound
	if err := repo.Init(context.Background(), 8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected index to be created")
	}
}

func TestInit_PingError(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.pingFn = func(_ context.Context) error { return errors.New("connection refused") }
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		t.Fatal("CreateIndex must not be called when ping fails")
		return nil
	}

	if err := repo.Init(context.Background(), 8); err == nil {
		t.Fatal("expected error")
	}
}

func TestInit_DropError(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.dropIndexFn = func(_ context.Context, _ string, _ bool) error {
		return &db.Error{Op: db.OpDropIndex, Err: errors.New("READONLY")}
	}

	if err := repo.Init(context.Background(), 8); err == nil {
		t.Fatal("expected error")
	}
}

func TestInit_ClearsLeftoverHashesWithoutDD(t *testing.T) {
	repo, ms := newTestRepo(t)

	// a valkey-search server keeps hashes after FT.DROPINDEX; they must be
	// gone before FT.CREATE re-indexes the prefix
	leftover := map[string]bool{"ragdex:notes:0": true, "ragdex:notes:1": true, "ragdex:other:0": true}
	ms.dropIndexFn = func(_ context.Context, _ string, _ bool) error { return nil }
	ms.deleteByPrefixFn = func(_ context.Context, prefix string) (int, error) {
		n := 0
		for k := range leftover {
			if strings.HasPrefix(k, prefix) {
				delete(leftover, k)
				n++
			}
		}
		return n, nil
	}
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		if leftover["ragdex:notes:0"] || leftover["ragdex:notes:1"] {
			t.Error("index created while previous documents still exist")
		}
		return nil
	}

	if err := repo.Init(context.Background(), 8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !leftover["ragdex:other:0"] {
		t.Error("keys of another collection must survive")
	}
}

func TestInit_ClearError(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.deleteByPrefixFn = func(_ context.Context, _ string) (int, error) {
		return 0, &db.Error{Op: db.OpScan, Err: errors.New("LOADING")}
	}
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		t.Fatal("CreateIndex must not be called when clearing fails")
		return nil
	}

	if err := repo.Init(context.Background(), 8); err == nil {
		t.Fatal("expected error")
	}
}

func TestInit_CreateError(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		return errors.New("module not loaded")
	}

	if err := repo.Init(context.Background(), 8); err == nil {
		t.Fatal("expected error")
	}
}

func TestInit_InvalidDim(t *testing.T) {
	repo, _ := newTestRepo(t)
	if err := repo.Init(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero dimensions")
	}
}

// --- Upsert ---

func TestUpsert_WritesHash(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		if key != "ragdex:notes:3" {
			t.Errorf("unexpected key: %s", key)
		}
		if fields["__content"] != "hello world" {
			t.Errorf("unexpected content: %q", fields["__content"])
		}
		if len(fields["__vector"]) != 8 {
			t.Errorf("expected 8-byte vector blob, got %d", len(fields["__vector"]))
		}
		if fields["doc_id"] != "3" {
			t.Errorf("unexpected doc_id: %q", fields["doc_id"])
		}
		return nil
	}

	err := repo.Upsert(context.Background(), domain.Document{ID: 3, Text: "hello world", Vector: []float32{0.1, 0.2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpsert_Error(t *testing.T) {
	repo, ms := newTestRepo(t)
	cause := &db.Error{Op: db.OpHSet, Err: errors.New("connection lost")}

	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error { return cause }

	err := repo.Upsert(context.Background(), domain.Document{ID: 0, Text: "x"})
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

// --- Search ---

func TestSearch_ReturnsTextsInOrder(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.IndexName != "ragdex:notes:idx" {
			t.Errorf("unexpected index: %s", q.IndexName)
		}
		if q.K != 2 {
			t.Errorf("expected K=2, got %d", q.K)
		}
		if q.VectorField != "vector" {
			t.Errorf("unexpected vector field: %s", q.VectorField)
		}
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{Key: "ragdex:notes:1", Score: 0.9, Fields: map[string]string{"__content": "best"}},
				{Key: "ragdex:notes:0", Score: 0.4, Fields: map[string]string{"__content": "second"}},
			},
		}, nil
	}

	texts, err := repo.Search(context.Background(), []float32{0.1}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(texts, []string{"best", "second"}) {
		t.Errorf("unexpected texts: %v", texts)
	}
}

func TestSearch_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)

	texts, err := repo.Search(context.Background(), []float32{0.1}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if texts == nil || len(texts) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", texts)
	}
}

func TestSearch_InvalidLimit(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Search(context.Background(), []float32{0.1}, 0)
	if !errors.Is(err, domain.ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestSearch_Error(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return nil, errors.New("timeout")
	}

	if _, err := repo.Search(context.Background(), []float32{0.1}, 2); err == nil {
		t.Fatal("expected error")
	}
}

// --- buildIndex ---

func TestBuildIndex_TextSearchEnabled(t *testing.T) {
	def, err := buildIndex("notes", 128, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "FT.CREATE ragdex:notes:idx ON HASH PREFIX ragdex:notes: SCHEMA " +
		"doc_id NUMERIC __content TEXT __vector AS vector VECTOR FLAT COSINE"
	if def.String() != want {
		t.Errorf("got %q\nwant %q", def.String(), want)
	}
}

func TestBuildIndex_NoTextSearch(t *testing.T) {
	def, err := buildIndex("notes", 128, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, f := range def.Fields {
		if f.Type == db.IndexFieldText {
			t.Errorf("unexpected TEXT field %s for backend without text search", f.Name)
		}
	}
	last := def.Fields[len(def.Fields)-1]
	if last.VectorDim != 128 || last.VectorDistance != db.DistanceCosine {
		t.Errorf("unexpected vector field: %+v", last)
	}
}
