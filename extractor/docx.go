package extractor

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"autorag/models"
)

// DOCX extracts paragraph text and tables from word/document.xml. Table
// contents are appended after the body text with a TABLE: prefix, mirroring
// how tables are labelled in the rest of the corpus.
type DOCX struct{}

func (d *DOCX) Exts() []string { return []string{".docx"} }

func (d *DOCX) Extract(path string) (models.Document, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to open docx %s: %w", path, err)
	}
	defer reader.Close()

	var content []byte
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return models.Document{}, err
		}
		content, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return models.Document{}, err
		}
		break
	}
	if content == nil {
		return models.Document{}, fmt.Errorf("docx %s has no word/document.xml", path)
	}

	paragraphs, tables, err := parseDocumentXML(content)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to parse docx %s: %w", path, err)
	}

	parts := make([]string, 0, len(paragraphs)+len(tables))
	parts = append(parts, paragraphs...)
	for _, table := range tables {
		parts = append(parts, "TABLE:\n"+table)
	}
	return models.NewDocument(strings.Join(parts, "\n\n"), sourceMetadata(path))
}

// documentXML mirrors the parts of word/document.xml we care about.
type documentXML struct {
	Body struct {
		Paragraphs []docParagraph `xml:"p"`
		Tables     []docTable     `xml:"tbl"`
	} `xml:"body"`
}

type docParagraph struct {
	Runs []docRun `xml:"r"`
}

type docRun struct {
	Text []docText `xml:"t"`
}

type docText struct {
	Content string `xml:",chardata"`
}

type docTable struct {
	Rows []struct {
		Cells []struct {
			Paragraphs []docParagraph `xml:"p"`
		} `xml:"tc"`
	} `xml:"tr"`
}

func parseDocumentXML(content []byte) (paragraphs, tables []string, err error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, nil, err
	}

	for _, para := range doc.Body.Paragraphs {
		if text := paragraphText(para); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	for _, table := range doc.Body.Tables {
		var rows []string
		for _, row := range table.Rows {
			var cells []string
			for _, cell := range row.Cells {
				var cellParts []string
				for _, para := range cell.Paragraphs {
					if text := paragraphText(para); text != "" {
						cellParts = append(cellParts, text)
					}
				}
				cells = append(cells, strings.Join(cellParts, " "))
			}
			rows = append(rows, strings.Join(cells, " | "))
		}
		if len(rows) > 0 {
			tables = append(tables, strings.Join(rows, "\n"))
		}
	}
	return paragraphs, tables, nil
}

func paragraphText(para docParagraph) string {
	var sb strings.Builder
	for _, run := range para.Runs {
		for _, text := range run.Text {
			sb.WriteString(text.Content)
		}
	}
	return strings.TrimSpace(sb.String())
}
