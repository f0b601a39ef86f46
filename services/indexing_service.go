package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"autorag/extractor"
	"autorag/models"
)

// FileIndexingService keeps the retrieval index in sync with a directory of
// documents: an initial scan at startup and, optionally, a watcher that
// rebuilds the index when files change.
type FileIndexingService struct {
	registry *extractor.Registry
	svc      RetrievalService

	mu     sync.Mutex
	hashes map[string]string
}

// NewFileIndexingService creates a new indexing service over the given
// extractor registry and retrieval service.
func NewFileIndexingService(registry *extractor.Registry, svc RetrievalService) *FileIndexingService {
	return &FileIndexingService{
		registry: registry,
		svc:      svc,
		hashes:   make(map[string]string),
	}
}

// ScanAndIngestDirectory walks the directory, extracts every supported file
// and ingests the batch. Per-file extraction failures are logged and
// skipped.
func (s *FileIndexingService) ScanAndIngestDirectory(ctx context.Context, dirPath string) error {
	docs, hashes, err := s.loadDirectory(dirPath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.hashes = hashes
	s.mu.Unlock()

	indexed, err := s.svc.Ingest(ctx, docs)
	if err != nil {
		return err
	}
	log.Printf("INDEXER: directory scan finished, %d of %d files indexed", indexed, len(docs))
	return nil
}

// WatchDirectory blocks until the context is cancelled, rebuilding the index
// whenever a supported file in the directory is created, modified or
// removed. Rebuilds publish a complete fresh snapshot, so queries racing a
// rebuild see either the old or the new corpus, never a mix.
func (s *FileIndexingService) WatchDirectory(ctx context.Context, dirPath string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("WATCHER ERROR: Failed to create file watcher: %v", err)
		return
	}
	defer watcher.Close()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !s.registry.Supported(event.Name) {
					continue
				}

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					hash, err := hashFile(event.Name)
					if err != nil {
						log.Printf("WATCHER WARN: Could not hash file %s: %v", event.Name, err)
						continue
					}
					s.mu.Lock()
					unchanged := s.hashes[event.Name] == hash
					s.mu.Unlock()
					if unchanged {
						continue
					}
					log.Printf("WATCHER: File modified/created: %s. Rebuilding index...", event.Name)
					s.rescanAndRebuild(ctx, dirPath)
				} else if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					s.mu.Lock()
					_, known := s.hashes[event.Name]
					s.mu.Unlock()
					if !known {
						continue
					}
					log.Printf("WATCHER: File removed/renamed: %s. Rebuilding index...", event.Name)
					s.rescanAndRebuild(ctx, dirPath)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("WATCHER ERROR: %v", err)
			case <-ctx.Done():
				log.Println("WATCHER: Context cancelled, shutting down watcher.")
				return
			}
		}
	}()

	log.Printf("WATCHER: Watching directory: %s", dirPath)
	if err := watcher.Add(dirPath); err != nil {
		log.Printf("WATCHER ERROR: Failed to add path to watcher: %v", err)
	}

	<-ctx.Done()
}

func (s *FileIndexingService) rescanAndRebuild(ctx context.Context, dirPath string) {
	docs, hashes, err := s.loadDirectory(dirPath)
	if err != nil {
		log.Printf("WATCHER ERROR: rescan of %s failed: %v", dirPath, err)
		return
	}
	s.mu.Lock()
	s.hashes = hashes
	s.mu.Unlock()

	if err := s.svc.Rebuild(ctx, docs); err != nil {
		log.Printf("WATCHER ERROR: rebuild failed: %v", err)
	}
}

// loadDirectory extracts every supported file under dirPath. A file that
// fails to hash or extract is logged and skipped, never aborting the scan.
func (s *FileIndexingService) loadDirectory(dirPath string) ([]models.Document, map[string]string, error) {
	var docs []models.Document
	hashes := make(map[string]string)
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !s.registry.Supported(path) {
			return nil
		}
		hash, err := hashFile(path)
		if err != nil {
			log.Printf("INDEXER WARN: Could not hash file %s: %v", path, err)
			return nil
		}
		doc, err := s.registry.Extract(path)
		if err != nil {
			log.Printf("INDEXER WARN: Could not extract %s: %v", path, err)
			return nil
		}
		docs = append(docs, doc)
		hashes[path] = hash
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return docs, hashes, nil
}

func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
