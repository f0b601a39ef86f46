package chunker

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"autorag/models"
)

// Recursive prefers natural split points (paragraph, then sentence, then
// word) before falling back to raw character offsets. Overlap between
// consecutive chunks is approximately, not exactly, the configured amount.
// Splitting is delegated to langchaingo's recursive character splitter.
type Recursive struct {
	splitter textsplitter.RecursiveCharacter
}

func NewRecursive(size, overlap int) (*Recursive, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d: %w", size, ErrBadConfig)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("overlap %d out of range for size %d: %w", overlap, size, ErrBadConfig)
	}
	return &Recursive{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
		),
	}, nil
}

func (c *Recursive) Chunk(doc models.Document) ([]models.Chunk, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, nil
	}
	parts, err := c.splitter.SplitText(doc.Text)
	if err != nil {
		return nil, fmt.Errorf("split text of %s: %w", doc.Source(), err)
	}
	chunks := make([]models.Chunk, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		chunks = append(chunks, newChunk(doc, len(chunks), part))
	}
	return chunks, nil
}
