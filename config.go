package resfs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustfall/resfs/provider/dat"
	"github.com/dustfall/resfs/provider/direct"
	"github.com/dustfall/resfs/provider/inifile"
	"github.com/dustfall/resfs/provider/s3"
	"github.com/dustfall/resfs/provider/sqlite"
)

// Config describes where a resolver finds its resources. Construction is
// explicit: the precedence order is fixed when Build returns and there is
// no process-global resource root.
type Config struct {
	// DataDirs are resource directories searched in order. Within each
	// directory, patch archives take precedence over loose files, which
	// take precedence over the base archives.
	DataDirs []string

	// BaseArchives names archive files resolved inside each data
	// directory after loose files, in order. Missing archives are
	// skipped.
	BaseArchives []string

	// PatchPrefix selects patch archives (<PatchPrefix>*.dat) inside
	// each data directory. Later patches supersede earlier ones, so
	// discovered patches register in descending name order. Empty
	// disables patch discovery.
	PatchPrefix string

	// Database optionally names a SQLite resource pack registered after
	// all data directories.
	Database string

	// Remote optionally configures an S3-compatible object store
	// registered after the database pack.
	Remote *s3.Config

	// ConfigDocument optionally names a standalone configuration file
	// served through the namespace at the lowest precedence. The
	// document may be missing; lookups for it then answer not found.
	ConfigDocument string
}

// Build constructs a FileSystem wired according to cfg.
func Build(cfg Config, opts ...Option) (*FileSystem, error) {
	f, err := New(opts...)
	if err != nil {
		return nil, err
	}

	for _, dir := range cfg.DataDirs {
		for _, patch := range discoverPatches(dir, cfg.PatchPrefix) {
			archive, err := dat.Open(patch)
			if err != nil {
				return nil, err
			}
			f.Register(archive)
		}

		f.Register(direct.New(dir))

		for _, name := range cfg.BaseArchives {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				f.log.Debug("skipping absent archive %s", path)
				continue
			}

			archive, err := dat.Open(path)
			if err != nil {
				return nil, err
			}
			f.Register(archive)
		}
	}

	if cfg.Database != "" {
		pack, err := sqlite.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		f.Register(pack)
	}

	if cfg.Remote != nil {
		store, err := s3.New(*cfg.Remote)
		if err != nil {
			return nil, err
		}
		f.Register(store)
	}

	if cfg.ConfigDocument != "" {
		f.Register(inifile.New(cfg.ConfigDocument))
	}

	return f, nil
}

// discoverPatches lists patch archives inside dir, highest patch first.
func discoverPatches(dir, prefix string) []string {
	if prefix == "" {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var patches []string
	for _, entry := range entries {
		name := strings.ToLower(entry.Name())
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".dat") {
			continue
		}

		patches = append(patches, filepath.Join(dir, entry.Name()))
	}

	sort.Sort(sort.Reverse(sort.StringSlice(patches)))
	return patches
}
