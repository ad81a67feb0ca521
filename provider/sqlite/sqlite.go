// Package sqlite serves resources out of a SQLite resource pack.
//
// A pack is a database file holding a single table:
//
//	CREATE TABLE resources (
//		path TEXT PRIMARY KEY,
//		size INTEGER NOT NULL,
//		data BLOB
//	);
//
// Paths are stored in canonical form. The full key set is loaded into an
// in-memory B-tree at open, so a lookup miss never touches the database.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/tidwall/btree"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/dustfall/resfs/data"
	"github.com/dustfall/resfs/provider"
)

// Pack is a read-only provider over a SQLite resource pack.
type Pack struct {
	db   *sql.DB
	keys *btree.Map[string, int64]
}

var _ provider.Provider = (*Pack)(nil)

// Open opens the pack at name and loads its key index.
func Open(name string) (*Pack, error) {
	db, err := sql.Open("sqlite", name)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA query_only = ON"); err != nil {
		db.Close()
		return nil, err
	}

	pack := &Pack{
		db:   db,
		keys: btree.NewMap[string, int64](0),
	}

	if err := pack.loadKeys(); err != nil {
		db.Close()
		return nil, err
	}

	return pack, nil
}

func (p *Pack) loadKeys() error {
	rows, err := p.db.Query("SELECT path, size FROM resources")
	if err != nil {
		return fmt.Errorf("sqlite pack: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var path string
		var size int64
		if err := rows.Scan(&path, &size); err != nil {
			return fmt.Errorf("sqlite pack: %w", err)
		}

		// Stored paths should already be canonical; normalize anyway so
		// a pack built with legacy names still resolves.
		p.keys.Set(data.NormalizePath(path), size)
	}

	return rows.Err()
}

func (p *Pack) Reader(ctx context.Context, path string) (io.ReadCloser, error) {
	canon := data.NormalizePath(path)
	if _, ok := p.keys.Get(canon); !ok {
		return nil, fmt.Errorf("%w: %s", data.ErrNotFound, path)
	}

	var blob []byte
	err := p.db.QueryRowContext(ctx,
		"SELECT data FROM resources WHERE path = ?",
		canon).Scan(&blob)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", data.ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}

	return io.NopCloser(bytes.NewReader(blob)), nil
}

func (p *Pack) Metadata(ctx context.Context, path string) (data.Metadata, error) {
	size, ok := p.keys.Get(data.NormalizePath(path))
	if !ok {
		return data.Metadata{}, fmt.Errorf("%w: %s", data.ErrNotFound, path)
	}

	return data.Metadata{Size: size}, nil
}

// Len returns the number of resources in the pack index.
func (p *Pack) Len() int {
	return p.keys.Len()
}

// Close releases the underlying database handle.
func (p *Pack) Close() error {
	return p.db.Close()
}
