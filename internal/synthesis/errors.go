package synthesis

import "errors"

// Common errors returned by the synthesis package.
var (
	// ErrEmptyItemName is returned when the item name is empty.
	ErrEmptyItemName = errors.New("item name cannot be empty")

	// ErrEngineFailure is returned when the synthesis engine call failed.
	ErrEngineFailure = errors.New("synthesis engine call failed")

	// ErrNoImage is returned when the engine responded without an image.
	ErrNoImage = errors.New("no image in synthesis response")
)
