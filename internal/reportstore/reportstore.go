// Package reportstore is the optional SQLite-backed result cache
// spec.md's implementation budget allocates under "shared DSP
// primitives and I/O adapters" (§4.6's [EXPANSION]). It sits strictly
// outside the core: internal/locker and internal/correlator never
// import it, and it never imports them for anything beyond the value
// types it persists — only a caller that chooses to wrap core calls
// touches a reportstore.Cache.
package reportstore

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// Open initialises the SQLite database at path and ensures its
// schema, applying the same PRAGMA tuning internal/db uses for the
// dashboard database.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("reportstore: open %s: %w", path, err)
	}

	for _, p := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(p); err != nil {
			slog.Warn("reportstore: pragma failed", "pragma", p, "error", err)
		}
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("reportstore: ensure schema: %w", err)
	}
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS offset_reports (
		content_hash TEXT PRIMARY KEY,
		report_json  TEXT NOT NULL,
		regions_json TEXT NOT NULL,
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}
