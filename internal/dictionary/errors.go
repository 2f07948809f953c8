package dictionary

import "errors"

var (
	// ErrWriteFailed wraps filesystem errors raised while persisting a dictionary.
	ErrWriteFailed = errors.New("dictionary write failed")

	// ErrInvalidName indicates a dictionary name that cannot be used as a file name.
	ErrInvalidName = errors.New("invalid dictionary name")
)
