package models

// SourceDocument is one retrieved chunk as surfaced to API callers.
type SourceDocument struct {
	Text     string            `json:"text"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// AskResponse answers POST /ask. Answer is the text of the best-ranked
// chunk; Sources carries every retrieved chunk so callers can do their own
// synthesis.
type AskResponse struct {
	Answer  string           `json:"answer"`
	Sources []SourceDocument `json:"sources,omitempty"`
}

// QueryResponse answers POST /api/v1/query with the full ranked result set.
type QueryResponse struct {
	Count   int              `json:"count"`
	Results []SourceDocument `json:"results"`
}

// DocumentsResponse answers GET /api/v1/documents.
type DocumentsResponse struct {
	Count     int            `json:"count"`
	Documents []DocumentInfo `json:"documents"`
}
