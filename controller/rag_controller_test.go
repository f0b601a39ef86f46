package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autorag/models"
	"autorag/services"
)

// stubService is a canned RetrievalService for handler tests.
type stubService struct {
	results  []models.ScoredChunk
	queryErr error
	indexed  int
	docs     []models.DocumentInfo
}

func (s *stubService) Ingest(context.Context, []models.Document) (int, error) {
	return s.indexed, nil
}

func (s *stubService) Rebuild(context.Context, []models.Document) error { return nil }

func (s *stubService) Query(context.Context, string, int) ([]models.ScoredChunk, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.results, nil
}

func (s *stubService) Documents(context.Context) ([]models.DocumentInfo, error) {
	return s.docs, nil
}

func newRouter(svc services.RetrievalService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	c := NewRAGController(svc)
	r := gin.New()
	r.POST("/ask", c.AskQuestion)
	r.POST("/api/v1/query", c.QueryRAG)
	r.POST("/api/v1/documents", c.IngestDocument)
	r.GET("/api/v1/documents", c.GetAllDocuments)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAskQuestion(t *testing.T) {
	svc := &stubService{results: []models.ScoredChunk{
		{Chunk: models.Chunk{Text: "Wheel lug nuts: 80-100 ft-lbs", Source: "service_manual.txt"}, Score: 0.92},
		{Chunk: models.Chunk{Text: "Oil drain plug: 25-30 ft-lbs", Source: "service_manual.txt"}, Score: 0.41},
	}}

	w := postJSON(t, newRouter(svc), "/ask", models.AskRequest{Question: "lug nut torque?"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Wheel lug nuts: 80-100 ft-lbs", resp.Answer)
	assert.Len(t, resp.Sources, 2)
	assert.InDelta(t, 0.92, resp.Sources[0].Score, 1e-9)
}

func TestAskQuestionNoIndex(t *testing.T) {
	svc := &stubService{queryErr: services.ErrNoIndex}

	w := postJSON(t, newRouter(svc), "/ask", models.AskRequest{Question: "anything"})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "no index built")
}

func TestAskQuestionBadBody(t *testing.T) {
	w := postJSON(t, newRouter(&stubService{}), "/ask", map[string]string{"q": "missing field"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryRAGReturnsAllResults(t *testing.T) {
	svc := &stubService{results: []models.ScoredChunk{
		{Chunk: models.Chunk{Text: "chunk one"}, Score: 0.9},
		{Chunk: models.Chunk{Text: "chunk two"}, Score: 0.8},
		{Chunk: models.Chunk{Text: "chunk three"}, Score: 0.7},
	}}

	w := postJSON(t, newRouter(svc), "/api/v1/query", models.QueryRequest{Question: "brakes", TopK: 3})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.QueryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "chunk one", resp.Results[0].Text)
}

func TestIngestDocument(t *testing.T) {
	svc := &stubService{indexed: 1}

	w := postJSON(t, newRouter(svc), "/api/v1/documents", models.IngestDocumentRequest{
		Text:     "Coolant flush every 30,000 miles.",
		Metadata: map[string]string{"source": "user_input"},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestIngestDocumentMissingSource(t *testing.T) {
	w := postJSON(t, newRouter(&stubService{}), "/api/v1/documents", models.IngestDocumentRequest{
		Text:     "orphan text",
		Metadata: map[string]string{"category": "misc"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAllDocuments(t *testing.T) {
	svc := &stubService{docs: []models.DocumentInfo{
		{Source: "manual.txt", Chunks: 12},
		{Source: "parts.csv", Chunks: 3},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.DocumentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "manual.txt", resp.Documents[0].Source)
}
