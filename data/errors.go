package data

import "errors"

// Sentinel errors shared by all provider implementations. Providers wrap
// these with %w so callers can classify failures with errors.Is. The
// resolver treats anything that does not match ErrNotFound as a hard
// failure and aborts the provider walk.
var (
	ErrNotFound       = errors.New("resfs: file not found")
	ErrPermission     = errors.New("resfs: permission denied")
	ErrCorruptArchive = errors.New("resfs: corrupt archive")
	ErrInvalidPath    = errors.New("resfs: invalid path")
	ErrClosed         = errors.New("resfs: reader already closed")
)
