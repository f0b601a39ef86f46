package extractor

import (
	"os"

	"autorag/models"
)

// Text reads plain-text files verbatim.
type Text struct{}

func (t *Text) Exts() []string { return []string{".txt", ".md"} }

func (t *Text) Extract(path string) (models.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return models.Document{}, err
	}
	return models.NewDocument(string(content), sourceMetadata(path))
}
