// Package dat serves resources out of packed archive containers.
//
// A container is a flat data section followed by a directory and an
// 8-byte trailer. The trailer holds the directory size and the total file
// size, both little-endian uint32. The directory starts with an entry
// count and lists, per entry: name length, name bytes, a compression
// flag, the real size, the packed size and the data offset. Entry names
// are stored in legacy form (mixed case, backslash separators) and are
// canonicalized while the index is built.
package dat

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zlib"
	"github.com/tidwall/btree"

	"github.com/dustfall/resfs/data"
	"github.com/dustfall/resfs/provider"
)

const trailerSize = 8

type entry struct {
	compressed bool
	realSize   uint32
	packedSize uint32
	offset     uint32
}

// Archive is a provider backed by a single container file. The directory
// is read once at open; lookups afterwards touch only the in-memory
// index. The container file stays open for the lifetime of the archive
// and entry streams read it through independent section readers, so a
// stream may be consumed on a different goroutine.
type Archive struct {
	name    string
	file    *os.File
	entries *btree.Map[string, entry]
}

var _ provider.Provider = (*Archive)(nil)

// Open reads the archive directory at name and builds the entry index.
// A directory that cannot be parsed fails with data.ErrCorruptArchive.
func Open(name string) (*Archive, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	archive := &Archive{
		name:    name,
		file:    file,
		entries: btree.NewMap[string, entry](0),
	}

	if err := archive.readDirectory(); err != nil {
		file.Close()
		return nil, err
	}

	return archive, nil
}

func (a *Archive) corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", data.ErrCorruptArchive, a.name, fmt.Sprintf(format, args...))
}

func (a *Archive) readDirectory() error {
	info, err := a.file.Stat()
	if err != nil {
		return err
	}

	size := info.Size()
	if size < trailerSize {
		return a.corrupt("file too small for trailer")
	}

	var trailer [trailerSize]byte
	if _, err := a.file.ReadAt(trailer[:], size-trailerSize); err != nil {
		return err
	}

	dirSize := binary.LittleEndian.Uint32(trailer[0:4])
	fileSize := binary.LittleEndian.Uint32(trailer[4:8])

	if int64(fileSize) != size {
		return a.corrupt("trailer file size %d does not match actual size %d", fileSize, size)
	}
	if int64(dirSize)+trailerSize > size {
		return a.corrupt("directory size %d exceeds file size", dirSize)
	}

	dataEnd := size - trailerSize - int64(dirSize)
	dir := make([]byte, dirSize)
	if _, err := a.file.ReadAt(dir, dataEnd); err != nil {
		return err
	}

	cursor := bytes.NewReader(dir)

	var count uint32
	if err := binary.Read(cursor, binary.LittleEndian, &count); err != nil {
		return a.corrupt("truncated entry count")
	}

	for i := uint32(0); i < count; i++ {
		var nameLen uint32
		if err := binary.Read(cursor, binary.LittleEndian, &nameLen); err != nil {
			return a.corrupt("truncated entry %d", i)
		}
		if nameLen == 0 || int64(nameLen) > int64(len(dir)) {
			return a.corrupt("entry %d has invalid name length %d", i, nameLen)
		}

		name := make([]byte, nameLen)
		if _, err := io.ReadFull(cursor, name); err != nil {
			return a.corrupt("truncated name in entry %d", i)
		}

		var fields struct {
			Compressed byte
			RealSize   uint32
			PackedSize uint32
			Offset     uint32
		}
		if err := binary.Read(cursor, binary.LittleEndian, &fields); err != nil {
			return a.corrupt("truncated fields in entry %d", i)
		}

		if int64(fields.Offset)+int64(fields.PackedSize) > dataEnd {
			return a.corrupt("entry %q overruns data section", name)
		}

		canon := make([]byte, 0, len(name))
		for _, c := range name {
			canon = data.AppendNormalized(canon, c)
		}
		canon = data.FinishNormalized(canon)

		a.entries.Set(string(canon), entry{
			compressed: fields.Compressed != 0,
			realSize:   fields.RealSize,
			packedSize: fields.PackedSize,
			offset:     fields.Offset,
		})
	}

	return nil
}

func (a *Archive) lookup(path string) (entry, bool) {
	return a.entries.Get(data.NormalizePath(path))
}

func (a *Archive) Reader(ctx context.Context, path string) (io.ReadCloser, error) {
	e, ok := a.lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", data.ErrNotFound, path, a.name)
	}

	section := io.NewSectionReader(a.file, int64(e.offset), int64(e.packedSize))
	if !e.compressed {
		return io.NopCloser(section), nil
	}

	inflate, err := zlib.NewReader(section)
	if err != nil {
		return nil, a.corrupt("entry %q: %v", path, err)
	}

	return &entryReader{
		reader: io.LimitReader(inflate, int64(e.realSize)),
		closer: inflate,
	}, nil
}

func (a *Archive) Metadata(ctx context.Context, path string) (data.Metadata, error) {
	e, ok := a.lookup(path)
	if !ok {
		return data.Metadata{}, fmt.Errorf("%w: %s in %s", data.ErrNotFound, path, a.name)
	}

	return data.Metadata{Size: int64(e.realSize)}, nil
}

// Len returns the number of entries in the archive index.
func (a *Archive) Len() int {
	return a.entries.Len()
}

// Close releases the underlying container file. Streams obtained before
// the call fail once the handle is gone.
func (a *Archive) Close() error {
	return a.file.Close()
}

type entryReader struct {
	reader io.Reader
	closer io.Closer
}

func (r *entryReader) Read(p []byte) (int, error) {
	return r.reader.Read(p)
}

func (r *entryReader) Close() error {
	return r.closer.Close()
}
