package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// ChunkerConfig configures how document text is split.
type ChunkerConfig struct {
	Type         string `yaml:"type"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
}

// OllamaEmbedderConfig holds settings for the local Ollama embedder.
type OllamaEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// GeminiEmbedderConfig holds settings for the Google GenAI embedder. The API
// key comes from the GEMINI_API_KEY environment variable, not the file.
type GeminiEmbedderConfig struct {
	Model string `yaml:"model"`
}

// EmbedderConfig selects and configures the embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	Ollama *OllamaEmbedderConfig `yaml:"ollama,omitempty"`
	Gemini *GeminiEmbedderConfig `yaml:"gemini,omitempty"`
}

// ChromaIndexConfig contains connection details for a ChromaDB index.
type ChromaIndexConfig struct {
	URL        string `yaml:"url"`
	Collection string `yaml:"collection"`
}

// VectorIndexConfig selects and configures the vector index implementation.
type VectorIndexConfig struct {
	Type   string             `yaml:"type"`
	Chroma *ChromaIndexConfig `yaml:"chroma,omitempty"`
}

// AppConfig is the root application configuration.
type AppConfig struct {
	Server      ServerConfig      `yaml:"server"`
	DataDir     string            `yaml:"data_dir"`
	Watch       bool              `yaml:"watch"`
	TopK        int               `yaml:"top_k"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorIndex VectorIndexConfig `yaml:"vector_index"`
}

// Load reads a config from the given path. A missing file yields defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no config file exists: a local
// Ollama embedder over an in-memory index, chunking 1000/200, serving on
// port 8080 and watching ./data.
func Default() *AppConfig {
	cfg := &AppConfig{
		Server:      ServerConfig{Port: 8080},
		DataDir:     "data",
		Watch:       true,
		TopK:        3,
		Chunker:     ChunkerConfig{Type: "recursive", ChunkSize: 1000, ChunkOverlap: 200},
		Embedder:    EmbedderConfig{Type: "ollama"},
		VectorIndex: VectorIndexConfig{Type: "memory"},
	}
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.TopK == 0 {
		cfg.TopK = 3
	}
	if cfg.Chunker.Type == "" {
		cfg.Chunker.Type = "recursive"
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 1000
		if cfg.Chunker.ChunkOverlap == 0 {
			cfg.Chunker.ChunkOverlap = 200
		}
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "ollama"
	}
	if cfg.Embedder.Type == "ollama" && cfg.Embedder.Ollama == nil {
		cfg.Embedder.Ollama = &OllamaEmbedderConfig{}
	}
	if cfg.Embedder.Type == "gemini" && cfg.Embedder.Gemini == nil {
		cfg.Embedder.Gemini = &GeminiEmbedderConfig{}
	}
	if cfg.VectorIndex.Type == "" {
		cfg.VectorIndex.Type = "memory"
	}
	if cfg.VectorIndex.Type == "chroma" && cfg.VectorIndex.Chroma == nil {
		cfg.VectorIndex.Chroma = &ChromaIndexConfig{}
	}
}
