package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/go-libsql"
)

// Open connects to the SQLite file at path through the libSQL driver and
// applies the pragmas the server relies on: WAL so readers do not block the
// countdown writer, a 5 s busy timeout, and enforced foreign keys.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	// PRAGMAs go through QueryContext: the driver refuses Exec for the ones
	// that return a row (journal_mode does), and draining rows also works
	// for the silent ones.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		rows, err := db.QueryContext(ctx, pragma)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
		rows.Close()
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}
