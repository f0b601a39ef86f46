package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"autorag/models"
)

var slideNameRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// PPTX extracts the text runs of every slide, in slide order, joined with
// blank lines.
type PPTX struct{}

func (p *PPTX) Exts() []string { return []string{".pptx"} }

func (p *PPTX) Extract(path string) (models.Document, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to open pptx %s: %w", path, err)
	}
	defer reader.Close()

	type slide struct {
		number int
		file   *zip.File
	}
	var slides []slide
	for _, file := range reader.File {
		m := slideNameRe.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slide{number: n, file: file})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].number < slides[j].number })

	var parts []string
	for _, s := range slides {
		rc, err := s.file.Open()
		if err != nil {
			return models.Document{}, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return models.Document{}, err
		}
		text, err := slideText(content)
		if err != nil {
			return models.Document{}, fmt.Errorf("failed to parse slide %d of %s: %w", s.number, path, err)
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return models.NewDocument(strings.Join(parts, "\n\n"), sourceMetadata(path))
}

// slideText walks the slide XML tokens and collects the character data of
// every <a:t> element. Token scanning sidesteps the deeply nested DrawingML
// structure.
func slideText(content []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(content))
	var parts []string
	inText := false
	var current strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
				if s := current.String(); s != "" {
					parts = append(parts, s)
				}
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}
