package chunker

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"autorag/models"
)

// Default sizes match the original corpus build: 1000-character chunks with
// 200 characters of overlap.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// ErrBadConfig is returned when chunk size and overlap cannot form a valid
// sliding window.
var ErrBadConfig = errors.New("chunk overlap must be smaller than chunk size")

// Chunker splits a document into an ordered sequence of chunks suitable for
// embedding and retrieval.
type Chunker interface {
	Chunk(doc models.Document) ([]models.Chunk, error)
}

// Fixed splits text at fixed character offsets. Every character of the input
// appears in at least one chunk, consecutive chunks overlap by exactly the
// configured amount, and only the final chunk may deviate from the target
// size. Characters are counted as runes.
type Fixed struct {
	size    int
	overlap int
}

// NewFixed validates the window configuration up front; an overlap that is
// not smaller than the size would never advance.
func NewFixed(size, overlap int) (*Fixed, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d: %w", size, ErrBadConfig)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("overlap %d out of range for size %d: %w", overlap, size, ErrBadConfig)
	}
	return &Fixed{size: size, overlap: overlap}, nil
}

func (c *Fixed) Chunk(doc models.Document) ([]models.Chunk, error) {
	runes := []rune(doc.Text)
	if len(runes) == 0 {
		return nil, nil
	}
	step := c.size - c.overlap
	chunks := make([]models.Chunk, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		} else if len(runes)-end <= c.overlap {
			// A further window would add no more text than it repeats.
			// Absorb the tail into this chunk instead of emitting a final
			// chunk that is mostly overlap.
			end = len(runes)
		}
		chunks = append(chunks, newChunk(doc, len(chunks), string(runes[start:end])))
		if end == len(runes) {
			break
		}
	}
	return chunks, nil
}

func newChunk(doc models.Document, ordinal int, text string) models.Chunk {
	md := make(map[string]string, len(doc.Metadata)+1)
	for k, v := range doc.Metadata {
		md[k] = v
	}
	md["chunk"] = fmt.Sprintf("%d", ordinal)
	return models.Chunk{
		ID:       uuid.New().String(),
		Source:   doc.Source(),
		Ordinal:  ordinal,
		Text:     text,
		Metadata: md,
	}
}
