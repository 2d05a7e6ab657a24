package translation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menulens/menulens-api/internal/domain"
)

func TestPlaceholderItem(t *testing.T) {
	item := PlaceholderItem("PAD THAI 120.- TOM YUM 150.-")

	require.NoError(t, item.Validate())
	assert.Equal(t, "PAD THAI 120.- TOM YUM 150.-", item.Name)
	assert.Equal(t, item.Name, item.OriginalName)
	assert.Equal(t, domain.CategoryOther, item.Category)
	assert.NotEmpty(t, item.Description)
}

func TestPlaceholderItemTruncatesLongText(t *testing.T) {
	raw := strings.Repeat("x", 200)
	item := PlaceholderItem(raw)

	assert.Len(t, item.Name, 60)
	assert.Equal(t, item.Name, item.OriginalName)
}

func TestPlaceholderItemTruncatesOnRuneBoundary(t *testing.T) {
	// Thai runes are three bytes each; byte-indexed truncation would split
	// one mid-sequence.
	raw := strings.Repeat("ผัดไทยอร่อยมาก", 20)
	item := PlaceholderItem(raw)

	assert.True(t, utf8.ValidString(item.Name), "truncated name must remain valid UTF-8")
	assert.Equal(t, 60, utf8.RuneCountInString(item.Name))
	assert.Equal(t, item.Name, item.OriginalName)
}
