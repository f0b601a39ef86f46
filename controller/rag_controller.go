package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autorag/models"
	"autorag/services"
)

// RAGController handles the HTTP requests for the retrieval API. It depends
// on the RetrievalService to perform the actual work.
type RAGController struct {
	ragService services.RetrievalService
}

// NewRAGController creates a controller over the given service. Called from
// main.go to inject the dependency.
func NewRAGController(service services.RetrievalService) *RAGController {
	return &RAGController{ragService: service}
}

// AskQuestion is the Gin handler for POST /ask. The answer is the text of
// the best-ranked chunk; every retrieved chunk rides along in sources.
func (c *RAGController) AskQuestion(ctx *gin.Context) {
	var req models.AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	results, err := c.ragService.Query(ctx.Request.Context(), req.Question, 0)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(results) == 0 {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "no matching documents found"})
		return
	}

	ctx.JSON(http.StatusOK, models.AskResponse{
		Answer:  results[0].Chunk.Text,
		Sources: toSourceDocuments(results),
	})
}

// QueryRAG is the Gin handler for POST /api/v1/query. Unlike /ask it returns
// the full ranked result set.
func (c *RAGController) QueryRAG(ctx *gin.Context) {
	var req models.QueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	results, err := c.ragService.Query(ctx.Request.Context(), req.Question, req.TopK)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, models.QueryResponse{
		Count:   len(results),
		Results: toSourceDocuments(results),
	})
}

// IngestDocument is the Gin handler for POST /api/v1/documents.
func (c *RAGController) IngestDocument(ctx *gin.Context) {
	var req models.IngestDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	doc, err := models.NewDocument(req.Text, req.Metadata)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	indexed, err := c.ragService.Ingest(ctx.Request.Context(), []models.Document{doc})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if indexed == 0 {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "document could not be indexed"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Document ingested successfully"})
}

// GetAllDocuments is the Gin handler for GET /api/v1/documents.
func (c *RAGController) GetAllDocuments(ctx *gin.Context) {
	docs, err := c.ragService.Documents(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve documents"})
		return
	}

	ctx.JSON(http.StatusOK, models.DocumentsResponse{
		Count:     len(docs),
		Documents: docs,
	})
}

func toSourceDocuments(results []models.ScoredChunk) []models.SourceDocument {
	out := make([]models.SourceDocument, 0, len(results))
	for _, r := range results {
		out = append(out, models.SourceDocument{
			Text:     r.Chunk.Text,
			Score:    r.Score,
			Metadata: r.Chunk.Metadata,
		})
	}
	return out
}
