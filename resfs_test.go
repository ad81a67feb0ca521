package resfs_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dustfall/resfs"
	"github.com/dustfall/resfs/data"
)

// stubProvider answers every path the same way and counts how often it
// was consulted.
type stubProvider struct {
	content string
	err     error

	readerCalls   int
	metadataCalls int
}

func (s *stubProvider) Reader(ctx context.Context, path string) (io.ReadCloser, error) {
	s.readerCalls++
	if s.err != nil {
		return nil, s.err
	}

	return io.NopCloser(strings.NewReader(s.content)), nil
}

func (s *stubProvider) Metadata(ctx context.Context, path string) (data.Metadata, error) {
	s.metadataCalls++
	if s.err != nil {
		return data.Metadata{}, s.err
	}

	return data.Metadata{Size: int64(len(s.content))}, nil
}

func notFound(path string) error {
	return &wrappedError{inner: data.ErrNotFound, text: "stub: " + path}
}

type wrappedError struct {
	inner error
	text  string
}

func (e *wrappedError) Error() string { return e.text }
func (e *wrappedError) Unwrap() error { return e.inner }

func newTestFileSystem(tst *testing.T) *resfs.FileSystem {
	fs, err := resfs.New(resfs.WithoutTerminalLog())
	if err != nil {
		tst.Fatalf("Failed to initialize filesystem: %v", err)
	}

	return fs
}

// TestReaderFirstSuccessWins verifies that the first provider to answer a
// path supplies the result and later providers are never consulted.
func TestReaderFirstSuccessWins(t *testing.T) {
	ctx := context.Background()
	fs := newTestFileSystem(t)

	first := &stubProvider{err: notFound("color.pal")}
	second := &stubProvider{content: "patched"}
	third := &stubProvider{content: "original"}

	fs.Register(first)
	fs.Register(second)
	fs.Register(third)

	reader, err := fs.Reader(ctx, "color.pal")
	if err != nil {
		t.Fatalf("Reader failed: %v", err)
	}
	defer reader.Close()

	got, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(got) != "patched" {
		t.Fatalf("Reader returned %q, want %q", got, "patched")
	}

	if first.readerCalls != 1 || second.readerCalls != 1 {
		t.Fatalf("expected one call each to providers 0 and 1, got %d and %d",
			first.readerCalls, second.readerCalls)
	}
	if third.readerCalls != 0 {
		t.Fatalf("provider after the first success was consulted %d times", third.readerCalls)
	}
}

// TestReaderAllNotFound verifies the synthesized error names the
// requested path when every provider answers not found.
func TestReaderAllNotFound(t *testing.T) {
	ctx := context.Background()
	fs := newTestFileSystem(t)

	fs.Register(&stubProvider{err: notFound("a")})
	fs.Register(&stubProvider{err: notFound("b")})

	_, err := fs.Reader(ctx, "maps/ARTEMPLE.MAP")
	if err == nil {
		t.Fatal("Reader succeeded, want not found")
	}
	if !errors.Is(err, data.ErrNotFound) {
		t.Fatalf("error %v does not match ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), "maps/ARTEMPLE.MAP") {
		t.Fatalf("error %q does not name the requested path", err.Error())
	}
}

// TestReaderHardErrorAborts verifies that any non-NotFound failure stops
// the provider walk and is returned verbatim, even when a later provider
// could have served the path.
func TestReaderHardErrorAborts(t *testing.T) {
	ctx := context.Background()
	fs := newTestFileSystem(t)

	hard := errors.New("archive directory unreadable")

	first := &stubProvider{err: notFound("x")}
	second := &stubProvider{err: hard}
	third := &stubProvider{content: "would have worked"}

	fs.Register(first)
	fs.Register(second)
	fs.Register(third)

	_, err := fs.Reader(ctx, "scripts/boot.int")
	if err != hard {
		t.Fatalf("Reader returned %v, want the provider error verbatim", err)
	}
	if third.readerCalls != 0 {
		t.Fatalf("provider after the hard failure was consulted %d times", third.readerCalls)
	}
}

// TestMetadataHardErrorAborts checks the shared resolution algorithm
// behaves identically for metadata lookups.
func TestMetadataHardErrorAborts(t *testing.T) {
	ctx := context.Background()
	fs := newTestFileSystem(t)

	hard := errors.New("permission denied on store")

	fs.Register(&stubProvider{err: hard})
	fs.Register(&stubProvider{content: "fallback"})

	_, err := fs.Metadata(ctx, "sound/sfx/test.wav")
	if err != hard {
		t.Fatalf("Metadata returned %v, want the provider error verbatim", err)
	}
}

// TestEmptyFileSystem verifies the zero-provider behavior.
func TestEmptyFileSystem(t *testing.T) {
	ctx := context.Background()
	fs := newTestFileSystem(t)

	paths := []string{"color.pal", "", "a/b/c"}
	for _, path := range paths {
		if fs.Exists(ctx, path) {
			t.Fatalf("Exists(%q) = true on an empty filesystem", path)
		}

		if _, err := fs.Reader(ctx, path); !errors.Is(err, data.ErrNotFound) {
			t.Fatalf("Reader(%q) = %v, want ErrNotFound", path, err)
		}
		if _, err := fs.Metadata(ctx, path); !errors.Is(err, data.ErrNotFound) {
			t.Fatalf("Metadata(%q) = %v, want ErrNotFound", path, err)
		}
	}
}

// TestMetadataSize verifies size information flows through unchanged.
func TestMetadataSize(t *testing.T) {
	ctx := context.Background()
	fs := newTestFileSystem(t)

	fs.Register(&stubProvider{content: "twelve bytes"})

	meta, err := fs.Metadata(ctx, "anything")
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}
	if meta.Size != 12 {
		t.Fatalf("Metadata size = %d, want 12", meta.Size)
	}
}

// TestExists verifies the derived predicate against both outcomes.
func TestExists(t *testing.T) {
	ctx := context.Background()
	fs := newTestFileSystem(t)

	provider := &stubProvider{content: "here"}
	fs.Register(provider)

	if !fs.Exists(ctx, "present") {
		t.Fatal("Exists = false for a resolvable path")
	}
	if provider.metadataCalls != 1 {
		t.Fatalf("Exists performed %d metadata lookups, want 1", provider.metadataCalls)
	}

	provider.err = notFound("gone")
	if fs.Exists(ctx, "gone") {
		t.Fatal("Exists = true for an unresolvable path")
	}
}

// TestProperties verifies a resolved document parses as an ini file.
func TestProperties(t *testing.T) {
	ctx := context.Background()
	fs := newTestFileSystem(t)

	fs.Register(&stubProvider{content: "[system]\nlanguage = english\n"})

	properties, err := fs.Properties(ctx, "engine.cfg")
	if err != nil {
		t.Fatalf("Properties failed: %v", err)
	}

	language := properties.Section("system").Key("language").String()
	if language != "english" {
		t.Fatalf("language = %q, want %q", language, "english")
	}
}
