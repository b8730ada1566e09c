package directory

import "errors"

var (
	// ErrInvalidArgument is returned when a required user or collection is nil.
	ErrInvalidArgument = errors.New("directory: invalid argument")

	// ErrNotFound is returned when no account matches a lookup.
	ErrNotFound = errors.New("directory: user not found")
)
