// Package direct is a passthrough provider over a native directory tree.
package direct

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/afero"

	"github.com/dustfall/resfs/data"
	"github.com/dustfall/resfs/provider"
)

// Directory serves loose files below a base directory. Canonical paths
// use backslashes and lowercase; files on disk are expected to be stored
// lowercase, the form packed resources are extracted in.
type Directory struct {
	fs afero.Fs
}

var _ provider.Provider = (*Directory)(nil)

// New returns a provider rooted at the given OS directory.
func New(root string) *Directory {
	return &Directory{fs: afero.NewBasePathFs(afero.NewOsFs(), root)}
}

// NewFs returns a provider over an arbitrary afero filesystem.
func NewFs(afs afero.Fs) *Directory {
	return &Directory{fs: afs}
}

func nativePath(path string) string {
	return strings.ReplaceAll(data.NormalizePath(path), "\\", "/")
}

func (d *Directory) Reader(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := d.fs.Open(nativePath(path))
	if err != nil {
		return nil, mapError(err, path)
	}

	info, err := file.Stat()
	if err == nil && info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%w: %s", data.ErrNotFound, path)
	}

	return file, nil
}

func (d *Directory) Metadata(ctx context.Context, path string) (data.Metadata, error) {
	info, err := d.fs.Stat(nativePath(path))
	if err != nil {
		return data.Metadata{}, mapError(err, path)
	}

	// Directories are not resources.
	if info.IsDir() {
		return data.Metadata{}, fmt.Errorf("%w: %s", data.ErrNotFound, path)
	}

	return data.Metadata{Size: info.Size()}, nil
}

func mapError(err error, path string) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", data.ErrNotFound, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", data.ErrPermission, path)
	}

	return err
}
