package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autorag/models"
)

func TestClientAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/ask", r.URL.Path)

		var req models.AskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "brake pad thickness?", req.Question)

		json.NewEncoder(w).Encode(models.AskResponse{
			Answer: "Minimum brake pad thickness is 3mm.",
			Sources: []models.SourceDocument{
				{Text: "Minimum brake pad thickness is 3mm.", Score: 0.88, Metadata: map[string]string{"source": "brakes.pdf"}},
				{Text: "Rotors should be measured too.", Score: 0.41, Metadata: map[string]string{"source": "brakes.pdf"}},
			},
		})
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL).Ask("brake pad thickness?")
	require.NoError(t, err)
	assert.Equal(t, "Minimum brake pad thickness is 3mm.", res.Answer)
	require.Len(t, res.Sources, 2)
	assert.Equal(t, "brakes.pdf", res.Sources[0].Name)
	assert.InDelta(t, 0.88, res.Sources[0].Score, 1e-9)
}

func TestClientAskServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "no index built"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Ask("anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no index built")
}
