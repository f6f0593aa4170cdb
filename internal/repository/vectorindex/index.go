package vectorindex

import (
	"strconv"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
)

const (
	contentField = "__content"
	vectorField  = "__vector"
	vectorAlias  = "vector"
	idField      = "doc_id"
)

// buildIndex defines the collection index: FLAT/COSINE vectors, a numeric id and,
// when the backend supports it, the document text as TEXT.
// valkey-search 1.0.x does not support TEXT.
func buildIndex(collection string, dim int, textSearchEnabled bool) (*db.IndexDefinition, error) {
	b := db.NewIndex(indexName(collection)).
		Prefix(collectionPrefix(collection)).
		Numeric(idField)
	if textSearchEnabled {
		b = b.Text(contentField)
	}
	return b.VectorFlat(vectorField, vectorAlias, dim, db.DistanceCosine).Build()
}

func collectionPrefix(collection string) string {
	return domain.KeyPrefix + collection + ":"
}

func indexName(collection string) string {
	return collectionPrefix(collection) + "idx"
}

func docKey(collection string, id int) string {
	return collectionPrefix(collection) + strconv.Itoa(id)
}
