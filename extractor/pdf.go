package extractor

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	"autorag/models"
)

func init() {
	// Load .env file from the current directory
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}
	if err := license.SetMeteredKey(os.Getenv("UNIDOC_LICENSE_KEY")); err != nil {
		log.Printf("WARN: Failed to set Unidoc license key: %v. PDF extraction will fail.", err)
	}
}

// PDF extracts the text of every page of a PDF using UniPDF.
type PDF struct{}

func (p *PDF) Exts() []string { return []string{".pdf"} }

func (p *PDF) Extract(path string) (models.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Document{}, err
	}
	defer f.Close()

	pdfReader, err := model.NewPdfReader(f)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to read pdf %s: %w", path, err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return models.Document{}, err
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return models.Document{}, err
		}

		ex, err := extractor.New(page)
		if err != nil {
			return models.Document{}, err
		}

		text, err := ex.ExtractText()
		if err != nil {
			return models.Document{}, err
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	return models.NewDocument(sb.String(), sourceMetadata(path))
}
