// Package inifile is a pseudo-provider wrapping one standalone
// configuration document.
package inifile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustfall/resfs/data"
	"github.com/dustfall/resfs/provider"
)

type state int

const (
	stateFound state = iota
	stateMissing
)

// Document serves exactly one file: the configuration document it was
// constructed with, addressable by its full path or its base name. Every
// other path answers not found.
type Document struct {
	path  string
	canon string
	base  string
	state state
}

var _ provider.Provider = (*Document)(nil)

// New wraps the document at path. Construction never fails: a missing
// document yields a provider in a missing state that answers not found
// for every path, so an absent config file is not a startup error.
func New(path string) *Document {
	d := &Document{
		path:  path,
		canon: data.NormalizePath(path),
		base:  data.NormalizePath(filepath.Base(path)),
	}

	if _, err := os.Stat(path); err != nil {
		d.state = stateMissing
	}

	return d
}

func (d *Document) serves(path string) bool {
	if d.state != stateFound {
		return false
	}

	canon := data.NormalizePath(path)
	return canon == d.canon || canon == d.base
}

func (d *Document) Reader(ctx context.Context, path string) (io.ReadCloser, error) {
	if !d.serves(path) {
		return nil, fmt.Errorf("%w: %s", data.ErrNotFound, path)
	}

	file, err := os.Open(d.path)
	if err != nil {
		return nil, mapError(err, path)
	}

	return file, nil
}

func (d *Document) Metadata(ctx context.Context, path string) (data.Metadata, error) {
	if !d.serves(path) {
		return data.Metadata{}, fmt.Errorf("%w: %s", data.ErrNotFound, path)
	}

	info, err := os.Stat(d.path)
	if err != nil {
		return data.Metadata{}, mapError(err, path)
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
