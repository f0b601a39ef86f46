// Package extractor turns files on disk into plain-text Documents. Each
// supported format has its own Extractor; the retrieval core only ever sees
// the resulting Document.
package extractor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"autorag/models"
)

// ErrUnsupportedFile is returned for file types no extractor handles.
var ErrUnsupportedFile = errors.New("unsupported file type")

// Extractor converts one file format into a Document whose metadata carries
// the file path under "source".
type Extractor interface {
	// Exts lists the lowercase file extensions (with leading dot) handled.
	Exts() []string
	Extract(path string) (models.Document, error)
}

// Registry dispatches files to extractors by extension.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry builds a registry over the given extractors. Later extractors
// win on extension clashes.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{byExt: make(map[string]Extractor)}
	for _, ex := range extractors {
		for _, ext := range ex.Exts() {
			r.byExt[ext] = ex
		}
	}
	return r
}

// DefaultRegistry covers every format the corpus contains: PDF, DOCX, PPTX,
// CSV and plain text.
func DefaultRegistry() *Registry {
	return NewRegistry(
		&Text{},
		&CSV{},
		&PDF{},
		&DOCX{},
		&PPTX{},
	)
}

// ForPath returns the extractor responsible for the given file.
func (r *Registry) ForPath(path string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(path))
	ex, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}
	return ex, nil
}

// Supported reports whether any registered extractor handles the file.
func (r *Registry) Supported(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extract dispatches to the right extractor for the file.
func (r *Registry) Extract(path string) (models.Document, error) {
	ex, err := r.ForPath(path)
	if err != nil {
		return models.Document{}, err
	}
	return ex.Extract(path)
}

func sourceMetadata(path string) map[string]string {
	return map[string]string{"source": path}
}
