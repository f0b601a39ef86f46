package vectorindex

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autorag/models"
)

func chunk(id string) models.Chunk {
	return models.Chunk{ID: id, Source: "test", Text: "chunk " + id}
}

func TestNewMemoryRejectsBadDimension(t *testing.T) {
	_, err := NewMemory(0)
	require.Error(t, err)
	_, err = NewMemory(-3)
	require.Error(t, err)
}

func TestMemoryInsertDimensionMismatch(t *testing.T) {
	idx, err := NewMemory(3)
	require.NoError(t, err)
	ctx := context.Background()

	err = idx.Insert(ctx, []models.Chunk{chunk("a")}, [][]float32{{1, 0}})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	// A rejected batch must leave the index untouched, even when only one
	// vector in it is bad.
	err = idx.Insert(ctx,
		[]models.Chunk{chunk("a"), chunk("b")},
		[][]float32{{1, 0, 0}, {1, 0}})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryInsertLengthMismatch(t *testing.T) {
	idx, err := NewMemory(2)
	require.NoError(t, err)

	err = idx.Insert(context.Background(), []models.Chunk{chunk("a")}, [][]float32{{1, 0}, {0, 1}})
	require.Error(t, err)
}

func TestMemorySearchEmptyIndex(t *testing.T) {
	idx, err := NewMemory(2)
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemorySearchQueryDimensionMismatch(t *testing.T) {
	idx, err := NewMemory(2)
	require.NoError(t, err)

	_, err = idx.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestMemorySearchRanking(t *testing.T) {
	idx, err := NewMemory(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, idx.Insert(ctx,
		[]models.Chunk{chunk("east"), chunk("north"), chunk("northeast")},
		[][]float32{{1, 0}, {0, 1}, {1, 1}}))

	results, err := idx.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "east", results[0].Chunk.ID)
	assert.Equal(t, "northeast", results[1].Chunk.ID)
	assert.Equal(t, "north", results[2].Chunk.ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Greater(t, results[0].Score, results[1].Score)
	assert.Greater(t, results[1].Score, results[2].Score)
}

func TestMemorySearchKLargerThanCount(t *testing.T) {
	idx, err := NewMemory(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, idx.Insert(ctx,
		[]models.Chunk{chunk("a"), chunk("b")},
		[][]float32{{1, 0}, {0, 1}}))

	results, err := idx.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestMemorySearchDeterministic(t *testing.T) {
	idx, err := NewMemory(3)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		v := []float32{float32(i), float32(8 - i), 1}
		require.NoError(t, idx.Insert(ctx, []models.Chunk{chunk(fmt.Sprintf("c%d", i))}, [][]float32{v}))
	}

	query := []float32{3, 5, 1}
	first, err := idx.Search(ctx, query, 5)
	require.NoError(t, err)
	second, err := idx.Search(ctx, query, 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMemorySearchTopKPrefixStability(t *testing.T) {
	idx, err := NewMemory(2)
	require.NoError(t, err)
	ctx := context.Background()

	vectors := [][]float32{{1, 0}, {0.9, 0.1}, {0.5, 0.5}, {0.1, 0.9}, {0, 1}}
	for i, v := range vectors {
		require.NoError(t, idx.Insert(ctx, []models.Chunk{chunk(fmt.Sprintf("c%d", i))}, [][]float32{v}))
	}

	query := []float32{1, 0.2}
	prev := []models.ScoredChunk{}
	for k := 1; k <= len(vectors); k++ {
		cur, err := idx.Search(ctx, query, k)
		require.NoError(t, err)
		require.Len(t, cur, k)
		assert.Equal(t, prev, cur[:k-1], "search(k=%d) must extend search(k=%d)", k, k-1)
		prev = cur
	}
}

func TestMemorySearchTieBreakByInsertionOrder(t *testing.T) {
	idx, err := NewMemory(2)
	require.NoError(t, err)
	ctx := context.Background()

	// Identical vectors: the earlier insert must rank first.
	same := []float32{0.6, 0.8}
	require.NoError(t, idx.Insert(ctx, []models.Chunk{chunk("first")}, [][]float32{same}))
	require.NoError(t, idx.Insert(ctx, []models.Chunk{chunk("second")}, [][]float32{same}))

	results, err := idx.Search(ctx, same, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].Chunk.ID)
	assert.Equal(t, "second", results[1].Chunk.ID)
	assert.Equal(t, results[0].Score, results[1].Score)
}

func TestMemorySearchZeroK(t *testing.T) {
	idx, err := NewMemory(2)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, idx.Insert(ctx, []models.Chunk{chunk("a")}, [][]float32{{1, 0}}))

	results, err := idx.Search(ctx, []float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}
