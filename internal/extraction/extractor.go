// Package extraction defines the boundary to the text-extraction engine,
// which turns a photographed menu into raw text plus a confidence score.
package extraction

import "context"

// MinReadableLength is the smallest amount of trimmed text the pipeline
// accepts as a readable menu. Anything shorter is treated as an
// extraction failure.
const MinReadableLength = 10

// Result holds the output of a text extraction call.
type Result struct {
	Text       string
	Confidence float64
}

// Extractor defines the interface for extracting text from an image buffer.
// This interface is the boundary between the pipeline and the external
// OCR/vision service.
type Extractor interface {
	// ExtractText extracts raw text from the image buffer. mimeType
	// identifies the image encoding (e.g. "image/jpeg").
	ExtractText(ctx context.Context, image []byte, mimeType string) (Result, error)
}
