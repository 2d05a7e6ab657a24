// Package translation defines the boundary to the structured-translation
// engine, which turns raw menu text into discrete, categorized menu items
// in the target language.
package translation

import (
	"context"

	"github.com/menulens/menulens-api/internal/domain"
)

// Translator defines the interface for structured menu translation.
// Implementations must honor a strict structured-output contract: any
// schema violation in the engine's response surfaces as ErrMalformedOutput
// rather than being speculatively repaired.
type Translator interface {
	// TranslateMenu translates raw menu text into structured items in the
	// target language. The returned slice preserves menu order.
	TranslateMenu(ctx context.Context, rawText, targetLanguage string) ([]domain.MenuItem, error)
}

// PlaceholderItem builds the single best-effort item substituted when the
// engine's output cannot be parsed at all. The session still completes
// with something to show rather than crashing.
func PlaceholderItem(rawText string) domain.MenuItem {
	// Truncate on rune boundaries so non-ASCII menu text stays valid UTF-8.
	name := rawText
	if runes := []rune(name); len(runes) > 60 {
		name = string(runes[:60])
	}
	return domain.MenuItem{
		Name:         name,
		OriginalName: name,
		Description:  "Menu content could not be fully structured",
		Category:     domain.CategoryOther,
	}
}
