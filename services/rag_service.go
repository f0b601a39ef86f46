package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"autorag/chunker"
	"autorag/embedder"
	"autorag/models"
	"autorag/vectorindex"
)

// ErrNoIndex is returned when a query arrives before any document has been
// ingested.
var ErrNoIndex = errors.New("no index built: ingest documents before querying")

// DefaultTopK is how many chunks a query retrieves when the caller does not
// say otherwise.
const DefaultTopK = 3

// RetrievalService orchestrates the chunk -> embed -> index pipeline and
// serves top-k retrieval over the result.
type RetrievalService interface {
	// Ingest chunks, embeds and indexes the given documents. A document that
	// fails to chunk or embed is logged and skipped; the rest of the batch
	// proceeds. Returns the number of documents indexed.
	Ingest(ctx context.Context, docs []models.Document) (int, error)
	// Rebuild constructs a fresh index from the given documents off to the
	// side and atomically publishes it. In-flight queries keep the previous
	// snapshot until publication.
	Rebuild(ctx context.Context, docs []models.Document) error
	// Query embeds the question and returns the topK closest chunks in
	// descending-similarity order. topK <= 0 falls back to the configured
	// default.
	Query(ctx context.Context, question string, topK int) ([]models.ScoredChunk, error)
	// Documents lists the ingested corpus.
	Documents(ctx context.Context) ([]models.DocumentInfo, error)
}

// IndexFactory creates an empty index for vectors of the given
// dimensionality. The service calls it once the first embedding fixes the
// dimension, and again on every rebuild.
type IndexFactory func(dimension int) (vectorindex.Index, error)

type retrievalService struct {
	chunker     chunker.Chunker
	embedder    embedder.Embedder
	newIndex    IndexFactory
	defaultTopK int

	mu    sync.RWMutex
	index vectorindex.Index
	docs  []models.DocumentInfo
}

// NewRetrievalService wires the pipeline components together.
func NewRetrievalService(ch chunker.Chunker, emb embedder.Embedder, newIndex IndexFactory, defaultTopK int) RetrievalService {
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	return &retrievalService{
		chunker:     ch,
		embedder:    emb,
		newIndex:    newIndex,
		defaultTopK: defaultTopK,
	}
}

// indexEntry is one document's worth of prepared index input.
type indexEntry struct {
	info    models.DocumentInfo
	chunks  []models.Chunk
	vectors [][]float32
}

// buildEntries runs chunking and embedding for every document, outside any
// lock. Per-document and per-chunk failures are logged and dropped.
func (s *retrievalService) buildEntries(ctx context.Context, docs []models.Document) []indexEntry {
	var entries []indexEntry
	for _, doc := range docs {
		if doc.Source() == "" {
			log.Printf("SERVICE: skipping document with no source metadata")
			continue
		}
		chunks, err := s.chunker.Chunk(doc)
		if err != nil {
			log.Printf("SERVICE: skipping %s: chunking failed: %v", doc.Source(), err)
			continue
		}
		if len(chunks) == 0 {
			log.Printf("SERVICE: skipping %s: no text to index", doc.Source())
			continue
		}

		texts := make([]string, len(chunks))
		for i, ch := range chunks {
			texts[i] = ch.Text
		}
		vectors, errs := s.embedder.EmbedBatch(ctx, texts)

		kept := indexEntry{info: models.DocumentInfo{Source: doc.Source()}}
		for i := range chunks {
			if errs[i] != nil {
				log.Printf("SERVICE: skipping chunk %d of %s: embedding failed: %v", i, doc.Source(), errs[i])
				continue
			}
			kept.chunks = append(kept.chunks, chunks[i])
			kept.vectors = append(kept.vectors, vectors[i])
		}
		if len(kept.chunks) == 0 {
			log.Printf("SERVICE: skipping %s: every chunk failed to embed", doc.Source())
			continue
		}
		kept.info.Chunks = len(kept.chunks)
		entries = append(entries, kept)
	}
	return entries
}

func (s *retrievalService) Ingest(ctx context.Context, docs []models.Document) (int, error) {
	entries := s.buildEntries(ctx, docs)
	if len(entries) == 0 {
		log.Printf("SERVICE: nothing to index from %d documents", len(docs))
		return 0, nil
	}

	// Inserts happen under the writer lock so a concurrent query never
	// observes a partially inserted batch.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		idx, err := s.newIndex(len(entries[0].vectors[0]))
		if err != nil {
			return 0, fmt.Errorf("failed to create vector index: %w", err)
		}
		s.index = idx
	}

	indexed := 0
	for _, e := range entries {
		if err := s.index.Insert(ctx, e.chunks, e.vectors); err != nil {
			log.Printf("SERVICE: skipping %s: insert failed: %v", e.info.Source, err)
			continue
		}
		s.docs = append(s.docs, e.info)
		indexed++
	}
	log.Printf("SERVICE: indexed %d of %d documents", indexed, len(docs))
	return indexed, nil
}

func (s *retrievalService) Rebuild(ctx context.Context, docs []models.Document) error {
	entries := s.buildEntries(ctx, docs)

	var fresh vectorindex.Index
	var infos []models.DocumentInfo
	if len(entries) > 0 {
		idx, err := s.newIndex(len(entries[0].vectors[0]))
		if err != nil {
			return fmt.Errorf("failed to create vector index: %w", err)
		}
		for _, e := range entries {
			if err := e.insertInto(ctx, idx); err != nil {
				log.Printf("SERVICE: rebuild skipping %s: %v", e.info.Source, err)
				continue
			}
			infos = append(infos, e.info)
		}
		fresh = idx
	}

	s.mu.Lock()
	s.index = fresh
	s.docs = infos
	s.mu.Unlock()
	log.Printf("SERVICE: rebuilt index with %d documents", len(infos))
	return nil
}

func (e indexEntry) insertInto(ctx context.Context, idx vectorindex.Index) error {
	return idx.Insert(ctx, e.chunks, e.vectors)
}

func (s *retrievalService) Query(ctx context.Context, question string, topK int) ([]models.ScoredChunk, error) {
	if topK <= 0 {
		topK = s.defaultTopK
	}

	s.mu.RLock()
	idx := s.index
	s.mu.RUnlock()
	if idx == nil {
		return nil, ErrNoIndex
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("could not embed question: %w", err)
	}
	results, err := idx.Search(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	return results, nil
}

func (s *retrievalService) Documents(_ context.Context) ([]models.DocumentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DocumentInfo, len(s.docs))
	copy(out, s.docs)
	return out, nil
}
