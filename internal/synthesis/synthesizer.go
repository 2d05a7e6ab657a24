// Package synthesis defines the boundary to the image-synthesis engine,
// which produces one illustrative image reference per menu item.
package synthesis

import (
	"context"
	"net/url"
)

// Synthesizer defines the interface for generating a dish image from an
// item's name and description. The returned reference is a URL the
// subscriber can load directly.
type Synthesizer interface {
	SynthesizeImage(ctx context.Context, itemName, description string) (string, error)
}

// PlaceholderURL returns a generic placeholder image reference naming the
// item, used when every other resolution path has failed.
func PlaceholderURL(itemName string) string {
	return "https://placehold.co/400x300?text=" + url.QueryEscape(itemName)
}
