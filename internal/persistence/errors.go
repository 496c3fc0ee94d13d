package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested key does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrClosed is returned when a store is used after Close.
	ErrClosed = errors.New("persistence: store closed")
)
