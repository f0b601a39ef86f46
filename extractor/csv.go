package extractor

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"autorag/models"
)

// CSV loads structured parts data and renders it as a markdown table so the
// chunker and embedder see readable rows instead of raw comma noise.
type CSV struct{}

func (c *CSV) Exts() []string { return []string{".csv"} }

func (c *CSV) Extract(path string) (models.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Document{}, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to parse csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return models.NewDocument("", sourceMetadata(path))
	}

	var sb strings.Builder
	sb.WriteString("CAR PARTS DATA:\n")
	sb.WriteString(markdownRow(records[0]))
	sb.WriteString(markdownSeparator(len(records[0])))
	for _, record := range records[1:] {
		sb.WriteString(markdownRow(record))
	}
	return models.NewDocument(sb.String(), sourceMetadata(path))
}

func markdownRow(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = strings.ReplaceAll(f, "|", "\\|")
	}
	return "| " + strings.Join(escaped, " | ") + " |\n"
}

func markdownSeparator(cols int) string {
	parts := make([]string, cols)
	for i := range parts {
		parts[i] = "---"
	}
	return "| " + strings.Join(parts, " | ") + " |\n"
}
