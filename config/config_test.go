package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "recursive", cfg.Chunker.Type)
	assert.Equal(t, 1000, cfg.Chunker.ChunkSize)
	assert.Equal(t, 200, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, "ollama", cfg.Embedder.Type)
	assert.Equal(t, "memory", cfg.VectorIndex.Type)
	assert.Equal(t, 3, cfg.TopK)
	assert.True(t, cfg.Watch)
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data_dir: /srv/docs
chunker:
  type: fixed
embedder:
  type: gemini
vector_index:
  type: chroma
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/docs", cfg.DataDir)
	assert.Equal(t, "fixed", cfg.Chunker.Type)
	assert.Equal(t, 1000, cfg.Chunker.ChunkSize)
	assert.Equal(t, 8080, cfg.Server.Port)
	require.NotNil(t, cfg.Embedder.Gemini)
	require.NotNil(t, cfg.VectorIndex.Chroma)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker: [broken"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadExplicitValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
top_k: 5
chunker:
  type: fixed
  chunk_size: 500
  chunk_overlap: 50
embedder:
  type: ollama
  ollama:
    base_url: http://ollama:11434
    model: all-minilm
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 500, cfg.Chunker.ChunkSize)
	assert.Equal(t, 50, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, "http://ollama:11434", cfg.Embedder.Ollama.BaseURL)
	assert.Equal(t, "all-minilm", cfg.Embedder.Ollama.Model)
}
