// Package sqlite implements the repository interfaces on an embedded SQLite
// database.
//
// WHY SQLITE?
// The whole service is a single binary with a single durable store. SQLite
// lives inside the binary as one file — nothing to install or operate, and
// its atomic auto-increment rowids give us serializable message identity
// assignment for free.
//
// WHY modernc.org/sqlite?
// It is a pure-Go translation of SQLite — no CGo, no C compiler, trivial
// cross-compilation. Functionally identical for our purposes to the CGo
// driver.
package sqlite

import (
	"database/sql"
	"fmt"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" in its init function.
	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB pool and implements repository.UserRepository and
// repository.MessageRepository.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath (":memory:" for tests) and configures the
// connection. It does NOT create the schema — call Migrate once before
// serving. Keeping bootstrap explicit means opening a handle never mutates
// the database as a side effect.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every connection to ":memory:" is a distinct, empty database, so the
	// pool must be pinned to a single connection or tests would see their
	// schema vanish between queries.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// sql.Open only creates the pool; Ping forces a real connection so a bad
	// path or permission problem surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is committing — required for a
	// server where inbox polls run concurrently with sends.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Writers that hit a locked database retry for up to 5s instead of
	// failing immediately with SQLITE_BUSY.
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the connection pool, flushing the WAL.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Migrate creates the schema. Idempotent by construction (IF NOT EXISTS
// everywhere) — safe to re-run on every startup.
//
// messages.message and messages.image_path are both nullable; the invariant
// that at least one is present is enforced by the service layer, and also by
// the CHECK constraint here so that no code path can persist an empty row.
func (db *DB) Migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE
		);
	`)
	if err != nil {
		return fmt.Errorf("sqlite: creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			sender     TEXT NOT NULL,
			receiver   TEXT NOT NULL,
			message    TEXT,
			image_path TEXT,
			created_at DATETIME NOT NULL,
			CHECK (message IS NOT NULL OR image_path IS NOT NULL)
		);
		CREATE INDEX IF NOT EXISTS idx_messages_receiver_created_at
			ON messages(receiver, created_at);
	`)
	if err != nil {
		return fmt.Errorf("sqlite: creating messages table: %w", err)
	}

	return nil
}
