package errors

import "errors"

var (
	// ErrNotHeld reports a release of a keyed lock the caller does not hold.
	ErrNotHeld = errors.New("lock not held")
)
