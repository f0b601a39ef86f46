// Package vectorindex stores (vector, chunk) pairs and serves k-nearest-
// neighbour similarity search over them. Similarity is cosine end-to-end:
// scores are in [-1, 1] and higher means closer.
package vectorindex

import (
	"context"
	"errors"

	"autorag/models"
)

// ErrDimensionMismatch is returned when a vector does not match the index's
// fixed dimensionality. Mixing dimensionalities would make every comparison
// meaningless, so the whole call is rejected.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Index is an append-only vector index. Inserts and searches are safe to
// call concurrently; implementations guarantee a search never observes a
// partially inserted batch.
type Index interface {
	// Insert appends the given chunks and their vectors. Chunks and vectors
	// must have equal length and every vector must match the index
	// dimensionality, otherwise the call fails and the index is unchanged.
	Insert(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error
	// Search returns the min(k, Count) chunks closest to the query vector in
	// descending-similarity order. Ties are broken by insertion order,
	// earliest first. k <= 0 or an empty index yields an empty result.
	Search(ctx context.Context, vector []float32, k int) ([]models.ScoredChunk, error)
	Count(ctx context.Context) (int, error)
}
