package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"autorag/chunker"
	"autorag/config"
	"autorag/controller"
	"autorag/embedder"
	"autorag/extractor"
	"autorag/services"
	"autorag/vectorindex"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ch, err := buildChunker(cfg.Chunker)
	if err != nil {
		log.Fatalf("FATAL: Failed to create chunker: %v", err)
	}

	emb, err := buildEmbedder(ctx, cfg.Embedder)
	if err != nil {
		log.Fatalf("FATAL: Failed to create embedder: %v", err)
	}
	log.Printf("Using embedder: %s", emb.Name())

	newIndex, err := buildIndexFactory(ctx, cfg.VectorIndex)
	if err != nil {
		log.Fatalf("FATAL: Failed to configure vector index: %v", err)
	}

	ragService := services.NewRetrievalService(ch, emb, newIndex, cfg.TopK)
	ragController := controller.NewRAGController(ragService)

	indexingService := services.NewFileIndexingService(extractor.DefaultRegistry(), ragService)
	if info, err := os.Stat(cfg.DataDir); err == nil && info.IsDir() {
		if err := indexingService.ScanAndIngestDirectory(ctx, cfg.DataDir); err != nil {
			log.Printf("WARN: Initial scan of %s failed: %v", cfg.DataDir, err)
		}
		if cfg.Watch {
			go indexingService.WatchDirectory(ctx, cfg.DataDir)
		}
	} else {
		log.Printf("WARN: Data directory %s not found, starting with an empty index", cfg.DataDir)
	}

	router := gin.Default()

	// CORS middleware so browser frontends can talk to the API.
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "AutoRAG API",
			"version": "1.0.0",
		})
	})

	router.POST("/ask", ragController.AskQuestion)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/query", ragController.QueryRAG)
		apiV1.POST("/documents", ragController.IngestDocument)
		apiV1.GET("/documents", ragController.GetAllDocuments)
	}

	port := fmt.Sprintf("%d", cfg.Server.Port)
	log.Printf("Go Gin backend server starting on http://localhost:%s", port)
	log.Printf("Health check available at: http://localhost:%s/health", port)
	log.Printf("API endpoints:")
	log.Printf("  POST http://localhost:%s/ask", port)
	log.Printf("  POST http://localhost:%s/api/v1/query", port)
	log.Printf("  POST http://localhost:%s/api/v1/documents", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("FATAL: Failed to start server: %v", err)
	}
}

func buildChunker(cfg config.ChunkerConfig) (chunker.Chunker, error) {
	switch cfg.Type {
	case "fixed":
		return chunker.NewFixed(cfg.ChunkSize, cfg.ChunkOverlap)
	case "recursive", "":
		return chunker.NewRecursive(cfg.ChunkSize, cfg.ChunkOverlap)
	default:
		return nil, fmt.Errorf("unknown chunker type %q", cfg.Type)
	}
}

func buildEmbedder(ctx context.Context, cfg config.EmbedderConfig) (embedder.Embedder, error) {
	switch cfg.Type {
	case "ollama", "":
		var oc embedder.OllamaConfig
		if cfg.Ollama != nil {
			oc.BaseURL = cfg.Ollama.BaseURL
			oc.Model = cfg.Ollama.Model
			oc.Timeout = time.Duration(cfg.Ollama.TimeoutSecs) * time.Second
		}
		return embedder.NewOllama(oc), nil
	case "gemini":
		var gc embedder.GeminiConfig
		if cfg.Gemini != nil {
			gc.Model = cfg.Gemini.Model
		}
		return embedder.NewGemini(ctx, gc)
	default:
		return nil, fmt.Errorf("unknown embedder type %q", cfg.Type)
	}
}

func buildIndexFactory(ctx context.Context, cfg config.VectorIndexConfig) (services.IndexFactory, error) {
	switch cfg.Type {
	case "memory", "":
		return func(dimension int) (vectorindex.Index, error) {
			return vectorindex.NewMemory(dimension)
		}, nil
	case "chroma":
		var cc vectorindex.ChromaConfig
		if cfg.Chroma != nil {
			cc.URL = cfg.Chroma.URL
			cc.Collection = cfg.Chroma.Collection
		}
		return func(int) (vectorindex.Index, error) {
			return vectorindex.NewChroma(ctx, cc)
		}, nil
	default:
		return nil, fmt.Errorf("unknown vector index type %q", cfg.Type)
	}
}
