package extraction

import "errors"

// Common errors returned by the extraction package.
var (
	// ErrUnreadableText is returned when the engine produced no usable text.
	ErrUnreadableText = errors.New("unable to extract readable text")

	// ErrEmptyImage is returned when the image buffer is empty.
	ErrEmptyImage = errors.New("image buffer cannot be empty")

	// ErrEngineFailure is returned when the extraction engine call failed.
	ErrEngineFailure = errors.New("extraction engine call failed")
)
