package vectorindex

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"autorag/models"
)

// Memory is an in-process brute-force cosine similarity index. The
// dimensionality is fixed at construction; every inserted vector must match
// it. Entries live for the lifetime of the process.
type Memory struct {
	mu        sync.RWMutex
	dimension int
	chunks    []models.Chunk
	vectors   [][]float32
	norms     []float64
}

// NewMemory creates an empty index for vectors of the given dimensionality.
func NewMemory(dimension int) (*Memory, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("index dimensionality must be positive, got %d", dimension)
	}
	return &Memory{dimension: dimension}, nil
}

// Dimension returns the fixed vector dimensionality of the index.
func (m *Memory) Dimension() int { return m.dimension }

func (m *Memory) Insert(_ context.Context, chunks []models.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	// Validate before touching state so a bad batch leaves the index intact.
	for i, v := range vectors {
		if len(v) != m.dimension {
			return fmt.Errorf("vector %d has dimension %d, index expects %d: %w",
				i, len(v), m.dimension, ErrDimensionMismatch)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range vectors {
		m.norms = append(m.norms, norm(v))
	}
	m.chunks = append(m.chunks, chunks...)
	m.vectors = append(m.vectors, vectors...)
	return nil
}

func (m *Memory) Search(_ context.Context, vector []float32, k int) ([]models.ScoredChunk, error) {
	if len(vector) != m.dimension {
		return nil, fmt.Errorf("query vector has dimension %d, index expects %d: %w",
			len(vector), m.dimension, ErrDimensionMismatch)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if k <= 0 || len(m.vectors) == 0 {
		return []models.ScoredChunk{}, nil
	}

	qnorm := norm(vector)
	results := make([]models.ScoredChunk, len(m.vectors))
	for i := range m.vectors {
		results[i] = models.ScoredChunk{
			Chunk: m.chunks[i],
			Score: cosine(m.vectors[i], m.norms[i], vector, qnorm),
		}
	}
	// Stable sort keeps insertion order among equal scores, which makes
	// repeated searches deterministic and top-k a prefix of top-(k+1).
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks), nil
}

func cosine(a []float32, anorm float64, b []float32, bnorm float64) float64 {
	if anorm == 0 || bnorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (anorm * bnorm)
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
