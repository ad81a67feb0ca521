// Package resfs resolves logical resource paths against an ordered set of
// backing stores, presenting them as a single unified read-only namespace.
package resfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"gopkg.in/ini.v1"

	"github.com/dustfall/resfs/data"
	"github.com/dustfall/resfs/log"
	"github.com/dustfall/resfs/provider"
)

// FileSystem presents an ordered list of providers as one queryable
// namespace. Registration order is precedence: the first provider to
// answer a path wins, and lower-precedence providers never override a
// higher-precedence hit.
type FileSystem struct {
	mu        sync.RWMutex
	providers []provider.Provider
	log       *log.Logger
}

// New creates an empty FileSystem. Until a provider is registered, every
// lookup fails with data.ErrNotFound.
func New(opts ...Option) (*FileSystem, error) {
	options := newDefaultOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	return &FileSystem{
		log: log.NewLogger("resfs", options.LogLevel, options.LogFile, options.NoTerminalLog),
	}, nil
}

// Register appends a provider at the lowest precedence position. There is
// no validation and no de-duplication; callers are expected to register
// all providers during initialization, before lookups begin.
func (f *FileSystem) Register(p provider.Provider) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.providers = append(f.providers, p)
	f.log.Debug("registered provider %d: %T", len(f.providers)-1, p)
}

// snapshot returns the current provider list. Lookups iterate the
// snapshot so no lock is held across provider calls.
func (f *FileSystem) snapshot() []provider.Provider {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.providers
}

// Reader opens the resource named by path for sequential reading,
// querying providers in registration order.
func (f *FileSystem) Reader(ctx context.Context, path string) (io.ReadCloser, error) {
	return resolve(f, path, func(p provider.Provider) (io.ReadCloser, error) {
		return p.Reader(ctx, path)
	})
}

// Metadata reports size information for the resource named by path,
// querying providers in registration order.
func (f *FileSystem) Metadata(ctx context.Context, path string) (data.Metadata, error) {
	return resolve(f, path, func(p provider.Provider) (data.Metadata, error) {
		return p.Metadata(ctx, path)
	})
}

// Exists reports whether path resolves to a resource. It performs a full
// metadata lookup and discards the result, so it shares the resolution
// cost and short-circuit semantics of Metadata.
func (f *FileSystem) Exists(ctx context.Context, path string) bool {
	_, err := f.Metadata(ctx, path)
	return err == nil
}

// Properties resolves path and parses its contents as an ini document.
func (f *FileSystem) Properties(ctx context.Context, path string) (*ini.File, error) {
	reader, err := f.Reader(ctx, path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	return ini.Load(buf)
}

// resolve walks the providers in registration order. The first success
// wins and ends the walk. A not-found answer moves on to the next
// provider. Any other error aborts the walk and is returned verbatim:
// a provider that claims the path's namespace but fails must not be
// silently masked by a lower-precedence store serving stale data. If the
// walk exhausts the list, a not-found error naming the requested path is
// synthesized.
func resolve[T any](f *FileSystem, path string, op func(provider.Provider) (T, error)) (T, error) {
	var zero T

	for i, p := range f.snapshot() {
		result, err := op(p)
		if err == nil {
			f.log.Debug("resolved %q via provider %d", path, i)
			return result, nil
		}

		if errors.Is(err, data.ErrNotFound) {
			continue
		}

		f.log.Error("provider %d failed for %q: %v", i, path, err)
		return zero, err
	}

	return zero, fmt.Errorf("%w: %s", data.ErrNotFound, path)
}
