package languageutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeading(t *testing.T) {
	assert.Equal(t, "Outerwear", Heading("  OUTERWEAR "))
	assert.Equal(t, "Top", Heading("top"))
	assert.Equal(t, "Smart Casual", Heading("smart casual"))
	assert.Equal(t, "n/a", Fold(" N/A "))
}
