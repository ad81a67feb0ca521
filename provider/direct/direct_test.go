package direct_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/spf13/afero"

	"github.com/dustfall/resfs/data"
	"github.com/dustfall/resfs/provider/direct"
)

func newFixture(tst *testing.T) *direct.Directory {
	tst.Helper()

	memFs := afero.NewMemMapFs()
	files := map[string]string{
		"color.pal":          "palette",
		"sound/sfx/test.wav": "wave data",
		"data/engine.cfg":    "[system]\nlanguage = english\n",
	}

	for path, content := range files {
		if err := afero.WriteFile(memFs, path, []byte(content), 0644); err != nil {
			tst.Fatalf("Failed to write fixture %s: %v", path, err)
		}
	}

	return direct.NewFs(memFs)
}

func TestDirectoryReader(t *testing.T) {
	ctx := context.Background()
	dir := newFixture(t)

	cases := []struct {
		name string
		path string
		want string
	}{
		{"plain", "color.pal", "palette"},
		{"backslashes", "sound\\sfx\\test.wav", "wave data"},
		{"forward-slashes", "sound/sfx/test.wav", "wave data"},
		{"mixed-case", "Data/Engine.CFG", "[system]\nlanguage = english\n"},
		{"dot-segments", "./sound/./sfx/test.wav", "wave data"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(tst *testing.T) {
			reader, err := dir.Reader(ctx, tc.path)
			if err != nil {
				tst.Fatalf("Reader(%q) failed: %v", tc.path, err)
			}
			defer reader.Close()

			got, err := io.ReadAll(reader)
			if err != nil {
				tst.Fatalf("ReadAll failed: %v", err)
			}
			if string(got) != tc.want {
				tst.Fatalf("Reader(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}

func TestDirectoryMetadata(t *testing.T) {
	ctx := context.Background()
	dir := newFixture(t)

	meta, err := dir.Metadata(ctx, "sound/sfx/test.wav")
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}
	if meta.Size != int64(len("wave data")) {
		t.Fatalf("Metadata size = %d, want %d", meta.Size, len("wave data"))
	}
}

func TestDirectoryNotFound(t *testing.T) {
	ctx := context.Background()
	dir := newFixture(t)

	if _, err := dir.Reader(ctx, "missing.pal"); !errors.Is(err, data.ErrNotFound) {
		t.Fatalf("Reader for missing file = %v, want ErrNotFound", err)
	}
	if _, err := dir.Metadata(ctx, "missing.pal"); !errors.Is(err, data.ErrNotFound) {
		t.Fatalf("Metadata for missing file = %v, want ErrNotFound", err)
	}
}

// TestDirectoryIgnoresDirectories verifies a directory path is not a
// resource.
func TestDirectoryIgnoresDirectories(t *testing.T) {
	ctx := context.Background()
	dir := newFixture(t)

	if _, err := dir.Metadata(ctx, "sound/sfx"); !errors.Is(err, data.ErrNotFound) {
		t.Fatalf("Metadata for a directory = %v, want ErrNotFound", err)
	}
}
