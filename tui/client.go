package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"autorag/models"
)

// Client talks to a running retrieval server over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Ask sends the question to POST /ask and returns the server's answer.
func (c *Client) Ask(question string) (*AskResult, error) {
	body, err := json.Marshal(models.AskRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+"/ask", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var ask models.AskResponse
	if err := json.NewDecoder(resp.Body).Decode(&ask); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := &AskResult{Answer: ask.Answer}
	for _, src := range ask.Sources {
		name := src.Metadata["source"]
		if name == "" {
			name = "unknown"
		}
		result.Sources = append(result.Sources, Source{Name: name, Score: src.Score})
	}
	return result, nil
}
