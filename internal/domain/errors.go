package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when input fails validation before the
	// pipeline starts (bad MIME type, empty buffer, missing language).
	// User-correctable.
	ErrValidation = errors.New("validation failed")

	// ErrExtraction is returned when text extraction fails or produces
	// unreadable output. Session-fatal.
	ErrExtraction = errors.New("text extraction failed")

	// ErrTranslation is returned when structured translation fails after
	// all retries. Session-fatal.
	ErrTranslation = errors.New("menu translation failed")

	// ErrSynthesis is returned when image synthesis fails for one item.
	// Never session-fatal; the item degrades to a fallback reference.
	ErrSynthesis = errors.New("image synthesis failed")

	// ErrParse is returned when the translation engine's structured output
	// violates the response schema.
	ErrParse = errors.New("malformed translation output")

	// ErrDependencyUnavailable is returned when an external collaborator
	// (cache store, engine endpoint) is unreachable. Triggers the fallback
	// path for the cache; never surfaces as a session-fatal error there.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
