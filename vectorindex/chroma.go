package vectorindex

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"autorag/models"
)

// ChromaConfig configures the remote ChromaDB-backed index.
type ChromaConfig struct {
	URL        string
	Collection string
}

// Chroma stores vectors in a ChromaDB collection. It exists for deployments
// where the corpus outgrows a single process; the Memory index is the
// default.
type Chroma struct {
	client     chromago.Client
	collection chromago.Collection
}

// NewChroma connects to ChromaDB and gets or creates the configured
// collection.
func NewChroma(ctx context.Context, cfg ChromaConfig) (*Chroma, error) {
	var opts []chromago.ClientOption
	if cfg.URL != "" {
		opts = append(opts, chromago.WithBaseURL(cfg.URL))
	}
	client, err := chromago.NewHTTPClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma client: %w", err)
	}
	name := cfg.Collection
	if name == "" {
		name = "autorag"
	}
	collection, err := client.GetOrCreateCollection(
		ctx,
		name,
		// Search converts distances as 1 - d, which is only cosine
		// similarity if the collection is built with the cosine space.
		chromago.WithHNSWSpaceCreate(embeddings.COSINE),
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("created_by", "autorag"),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create collection %q: %w", name, err)
	}
	return &Chroma{client: client, collection: collection}, nil
}

// Close releases the underlying client resources.
func (c *Chroma) Close() error {
	return c.client.Close()
}

func (c *Chroma) Insert(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}
	ids := make([]chromago.DocumentID, len(chunks))
	texts := make([]string, len(chunks))
	embs := make([]embeddings.Embedding, len(chunks))
	metas := make([]chromago.DocumentMetadata, len(chunks))
	for i, ch := range chunks {
		ids[i] = chromago.DocumentID(ch.ID)
		texts[i] = ch.Text
		embs[i] = embeddings.NewEmbeddingFromFloat32(vectors[i])
		metas[i] = chromago.NewDocumentMetadata(
			chromago.NewStringAttribute("source", ch.Source),
			chromago.NewIntAttribute("ordinal", int64(ch.Ordinal)),
		)
	}
	if err := c.collection.Add(ctx,
		chromago.WithIDs(ids...),
		chromago.WithTexts(texts...),
		chromago.WithEmbeddings(embs...),
		chromago.WithMetadatas(metas...),
	); err != nil {
		return fmt.Errorf("failed to add records to chromadb: %w", err)
	}
	return nil
}

func (c *Chroma) Search(ctx context.Context, vector []float32, k int) ([]models.ScoredChunk, error) {
	if k <= 0 {
		return []models.ScoredChunk{}, nil
	}
	results, err := c.collection.Query(
		ctx,
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)),
		chromago.WithNResults(k),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chromadb: %w", err)
	}

	idGroups := results.GetIDGroups()
	documentGroups := results.GetDocumentsGroups()
	metadataGroups := results.GetMetadatasGroups()
	distanceGroups := results.GetDistancesGroups()

	scored := []models.ScoredChunk{}
	if len(documentGroups) == 0 {
		return scored, nil
	}
	for i, doc := range documentGroups[0] {
		chunk := models.Chunk{Text: doc.ContentString()}
		if len(idGroups) > 0 && i < len(idGroups[0]) {
			chunk.ID = string(idGroups[0][i])
		}
		if len(metadataGroups) > 0 && i < len(metadataGroups[0]) {
			chunk.Metadata = metadataToMap(metadataGroups[0][i])
			chunk.Source = chunk.Metadata["source"]
			if ord, err := strconv.Atoi(chunk.Metadata["ordinal"]); err == nil {
				chunk.Ordinal = ord
			}
		}
		score := 0.0
		if len(distanceGroups) > 0 && i < len(distanceGroups[0]) {
			// Chroma reports distances; cosine similarity = 1 - distance.
			score = 1 - float64(distanceGroups[0][i])
		}
		scored = append(scored, models.ScoredChunk{Chunk: chunk, Score: score})
	}
	return scored, nil
}

func (c *Chroma) Count(ctx context.Context) (int, error) {
	count, err := c.collection.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count items in collection: %w", err)
	}
	return int(count), nil
}

// metadataToMap converts Chroma's metadata type through a JSON round trip;
// the struct exposes no direct accessor for all values.
func metadataToMap(meta chromago.DocumentMetadata) map[string]string {
	if meta == nil {
		return nil
	}
	jsonBytes, err := json.Marshal(meta)
	if err != nil {
		log.Printf("WARN: could not marshal chroma metadata: %v", err)
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(jsonBytes, &raw); err != nil {
		log.Printf("WARN: could not unmarshal chroma metadata: %v", err)
		return nil
	}
	out := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			out[key] = v
		case float64:
			if v == math.Trunc(v) {
				out[key] = strconv.FormatInt(int64(v), 10)
			} else {
				out[key] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
	}
	return out
}
