package embedder

import "context"

// Embedder maps text to a fixed-length dense vector. All vectors produced by
// one embedder have the same dimensionality, and the same input always maps
// to the same output for a given model.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch embeds every input and keeps output positions aligned with
	// input positions. A failure for one item marks that position with a
	// non-nil error and a nil vector; it never aborts the rest of the batch.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, []error)
}

// batchOneByOne builds EmbedBatch semantics on top of a single-item embed
// call, preserving input order and isolating per-item failures.
func batchOneByOne(ctx context.Context, texts []string, embed func(context.Context, string) ([]float32, error)) ([][]float32, []error) {
	vectors := make([][]float32, len(texts))
	errs := make([]error, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			continue
		}
		vectors[i], errs[i] = embed(ctx, text)
	}
	return vectors, errs
}
