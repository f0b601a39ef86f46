package models

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// QueryRequest is the body of POST /api/v1/query. TopK is optional; the
// server default applies when it is zero.
type QueryRequest struct {
	Question string `json:"question" binding:"required"`
	TopK     int    `json:"top_k,omitempty"`
}

// IngestDocumentRequest is the body of POST /api/v1/documents. Metadata must
// include a "source" entry.
type IngestDocumentRequest struct {
	Text     string            `json:"text" binding:"required"`
	Metadata map[string]string `json:"metadata" binding:"required"`
}
