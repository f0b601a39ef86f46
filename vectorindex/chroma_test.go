package vectorindex

import (
	"testing"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/stretchr/testify/assert"
)

func TestMetadataToMap(t *testing.T) {
	meta := chromago.NewDocumentMetadata(
		chromago.NewStringAttribute("source", "manual.pdf"),
		chromago.NewIntAttribute("ordinal", 7),
		chromago.NewFloatAttribute("confidence", 0.85),
	)

	out := metadataToMap(meta)
	assert.Equal(t, "manual.pdf", out["source"])
	assert.Equal(t, "7", out["ordinal"])
	// Fractional floats keep their fraction instead of truncating.
	assert.Equal(t, "0.85", out["confidence"])
}

func TestMetadataToMapNil(t *testing.T) {
	assert.Nil(t, metadataToMap(nil))
}
