package inifile_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dustfall/resfs/data"
	"github.com/dustfall/resfs/provider/inifile"
)

const configContent = "[system]\nlanguage = english\n"

func writeConfig(tst *testing.T) string {
	tst.Helper()

	path := filepath.Join(tst.TempDir(), "engine.cfg")
	if err := os.WriteFile(path, []byte(configContent), 0644); err != nil {
		tst.Fatalf("Failed to write config: %v", err)
	}

	return path
}

func TestDocumentReader(t *testing.T) {
	ctx := context.Background()
	doc := inifile.New(writeConfig(t))

	// The document answers under its base name and its full path.
	for _, path := range []string{"engine.cfg", "ENGINE.CFG"} {
		reader, err := doc.Reader(ctx, path)
		if err != nil {
			t.Fatalf("Reader(%q) failed: %v", path, err)
		}

		got, err := io.ReadAll(reader)
		reader.Close()
		if err != nil {
			t.Fatalf("ReadAll failed: %v", err)
		}
		if string(got) != configContent {
			t.Fatalf("Reader(%q) = %q, want config contents", path, got)
		}
	}
}

func TestDocumentMetadata(t *testing.T) {
	ctx := context.Background()
	doc := inifile.New(writeConfig(t))

	meta, err := doc.Metadata(ctx, "engine.cfg")
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}
	if meta.Size != int64(len(configContent)) {
		t.Fatalf("Metadata size = %d, want %d", meta.Size, len(configContent))
	}
}

func TestDocumentServesOnlyItself(t *testing.T) {
	ctx := context.Background()
	doc := inifile.New(writeConfig(t))

	if _, err := doc.Reader(ctx, "other.cfg"); !errors.Is(err, data.ErrNotFound) {
		t.Fatalf("Reader for foreign path = %v, want ErrNotFound", err)
	}
}

// TestDocumentMissing verifies construction succeeds for an absent file
// and every lookup answers not found.
func TestDocumentMissing(t *testing.T) {
	ctx := context.Background()
	doc := inifile.New(filepath.Join(t.TempDir(), "absent.cfg"))

	if _, err := doc.Reader(ctx, "absent.cfg"); !errors.Is(err, data.ErrNotFound) {
		t.Fatalf("Reader on missing document = %v, want ErrNotFound", err)
	}
	if _, err := doc.Metadata(ctx, "absent.cfg"); !errors.Is(err, data.ErrNotFound) {
		t.Fatalf("Metadata on missing document = %v, want ErrNotFound", err)
	}
}
