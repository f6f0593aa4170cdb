package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
)

// store is the consumer interface for the vector index (ISP).
type store interface {
	Ping(ctx context.Context) error
	HSet(ctx context.Context, key string, fields map[string]string) error
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	SupportsTextSearch(ctx context.Context) bool
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase/document.VectorIndex over an FT-capable Redis or Valkey store.
type Repo struct {
	store      store
	collection string
}

// New creates a vector index repository for one collection.
func New(s store, collection string) *Repo {
	return &Repo{store: s, collection: collection}
}

// Init recreates the collection index sized to dim. Documents left over from a
// previous run are dropped together with the old index, and any hash still
// under the collection prefix is deleted before the new index scans it.
func (r *Repo) Init(ctx context.Context, dim int) error {
	if err := r.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}

	def, err := buildIndex(r.collection, dim, r.store.SupportsTextSearch(ctx))
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	if err := r.store.DropIndex(ctx, def.Name, true); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", def.Name, err)
	}

	prefix := collectionPrefix(r.collection)
	if _, err := r.store.DeleteByPrefix(ctx, prefix); err != nil {
		return fmt.Errorf("clear %s: %w", prefix, err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return nil
}

// Upsert writes a document hash keyed by its id. Rewriting the same id overwrites it.
func (r *Repo) Upsert(ctx context.Context, doc domain.Document) error {
	key := docKey(r.collection, doc.ID)
	fields := map[string]string{
		contentField: doc.Text,
		vectorField:  db.EncodeVector(doc.Vector),
		idField:      strconv.Itoa(doc.ID),
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Search returns the texts of the limit nearest documents, best match first.
func (r *Repo) Search(ctx context.Context, vector []float32, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidLimit
	}

	result, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexName(r.collection),
		VectorField:  vectorAlias,
		Vector:       vector,
		K:            limit,
		ReturnFields: []string{contentField},
	})
	if err != nil {
		return nil, fmt.Errorf("knn search %s: %w", r.collection, err)
	}

	texts := make([]string, 0, len(result.Entries))
	for _, e := range result.Entries {
		texts = append(texts, e.Fields[contentField])
	}
	return texts, nil
}
