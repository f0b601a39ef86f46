package models

import "errors"

// ErrMissingSource is returned when a document is built without a source
// identifier in its metadata.
var ErrMissingSource = errors.New("document metadata is missing a \"source\" entry")

// Document is the unit of ingestion: plain text produced by an extractor
// plus a metadata mapping. The metadata must carry at least a "source" key
// (file path or URL) identifying where the text came from.
type Document struct {
	Text     string
	Metadata map[string]string
}

// NewDocument validates the metadata and returns an immutable Document.
// The metadata map is copied so later mutations by the caller cannot leak in.
func NewDocument(text string, metadata map[string]string) (Document, error) {
	if metadata == nil || metadata["source"] == "" {
		return Document{}, ErrMissingSource
	}
	md := make(map[string]string, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}
	return Document{Text: text, Metadata: md}, nil
}

// Source returns the document's source identifier.
func (d Document) Source() string {
	return d.Metadata["source"]
}

// Chunk is a contiguous piece of a document's text sized for embedding.
// Chunks of one document form an ordered sequence; Ordinal is the chunk's
// position within that sequence. Overlap between consecutive chunks is by
// design.
type Chunk struct {
	ID       string
	Source   string
	Ordinal  int
	Text     string
	Metadata map[string]string
}

// ScoredChunk pairs a retrieved chunk with its cosine similarity to the
// query vector. Higher scores mean closer matches.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// DocumentInfo summarizes one ingested document for listing endpoints.
type DocumentInfo struct {
	Source string `json:"source"`
	Chunks int    `json:"chunks"`
}
