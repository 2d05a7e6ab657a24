package translation

import "errors"

// Common errors returned by the translation package.
var (
	// ErrEmptyText is returned when there is no text to translate.
	ErrEmptyText = errors.New("menu text cannot be empty")

	// ErrMalformedOutput is returned when the engine's structured output
	// violates the response schema.
	ErrMalformedOutput = errors.New("malformed structured translation output")

	// ErrEngineFailure is returned when the translation engine call failed.
	ErrEngineFailure = errors.New("translation engine call failed")
)
