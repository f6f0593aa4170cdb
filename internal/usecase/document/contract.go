package document

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// VectorIndex is a remote nearest-neighbour index for one collection.
type VectorIndex interface {
	// Init (re)creates the collection for vectors of length dim, cosine distance.
	Init(ctx context.Context, dim int) error
	// Upsert writes a document keyed by its id; rewriting an id overwrites it.
	Upsert(ctx context.Context, doc domain.Document) error
	// Search returns the texts of up to limit nearest documents, best first.
	Search(ctx context.Context, vector []float32, limit int) ([]string, error)
}
