// Package provider defines the contract every backing store implements to
// take part in path resolution.
package provider

import (
	"context"
	"io"

	"github.com/dustfall/resfs/data"
)

// Provider is a single backing store able to answer read and stat queries
// for some subset of logical paths. Implementations receive the caller's
// original path and are responsible for their own normalization.
//
// Both operations wrap data.ErrNotFound when the path is not present at
// all; any other error means the path belongs to this provider's domain
// but could not be served. Internal state (archive index, base directory,
// open file handle) is private to each implementation, and a provider that
// keeps mutable state must serialize its own access.
type Provider interface {
	// Reader opens the resource named by path for sequential reading.
	// The returned stream may be handed to another goroutine, but a
	// single stream is not safe for concurrent readers.
	Reader(ctx context.Context, path string) (io.ReadCloser, error)

	// Metadata reports size information for the resource named by path
	// without opening a stream.
	Metadata(ctx context.Context, path string) (data.Metadata, error)
}
