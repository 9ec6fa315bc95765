package db

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned when the engine does not become ready in time.
var ErrUnavailable = errors.New("db: engine unavailable")

// Op constants name engine endpoints for error context and metrics.
const (
	OpSearch     = "_search"
	OpCatIndices = "_cat/indices"
	OpPing       = "ping"
)

// Error wraps a transport failure with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// StatusError is a non-2xx engine response. Body is the raw response text.
type StatusError struct {
	Op     string
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Body)
}
