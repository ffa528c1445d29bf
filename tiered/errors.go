package tiered

import "errors"

// ErrNotFound is returned by a SharedCache.Get implementation when the key
// is absent. GetOrFill treats it as a normal miss, not a failure.
var ErrNotFound = errors.New("tiered: key not found in shared cache")

// errStoreRead wraps a GetFromDB failure with the phase that produced it,
// mirroring the "Error reading from store" context string the coordinator
// has always attached to backing-store failures.
func errStoreRead(cause error) error {
	return &contextError{context: "Error reading from store", cause: cause}
}

type contextError struct {
	context string
	cause   error
}

func (e *contextError) Error() string { return e.context + ": " + e.cause.Error() }

func (e *contextError) Unwrap() error { return e.cause }
