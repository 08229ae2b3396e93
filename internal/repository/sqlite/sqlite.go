// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside your Go binary as a single file.
// No separate database server to install, configure, or manage. It is the
// default store; set DATABASE_DRIVER=postgres to use the postgres package instead.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C compiler
// installed and cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — no C compiler needed, works everywhere Go works.
//
// DATABASE/SQL OVERVIEW:
// Key types:
//   - sql.DB      — a connection pool (NOT a single connection!)
//   - sql.Row     — a single result row
//   - sql.Rows    — multiple result rows (must be closed!)
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// BLANK IMPORT:
	// The sqlite package's init() registers itself with database/sql as a
	// driver named "sqlite". After this import, sql.Open("sqlite", ...) works.
	_ "modernc.org/sqlite"

	"github.com/sakif/aicademy-auth/internal/repository"
)

// MemoryPath opens a private in-memory database (lost on Close).
const MemoryPath = ":memory:"

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// DB wraps a sql.DB connection pool and provides repository methods.
//
// One DB is created at startup and shared by every request handler.
// *sql.DB is safe for concurrent use, so no extra locking is needed.
type DB struct {
	conn *sql.DB
}

// New opens a SQLite database.
//
// dbPath examples:
//   - "data/ai_cademy.db"  → file-based database (persistent)
//   - ":memory:"           → in-memory database (great for tests, lost on close)
//
// New does NOT create tables; the server calls EnsureIndexes once at start.
func New(dbPath string) (*DB, error) {
	dsn := dbPath
	if dbPath != MemoryPath {
		// _pragma parameters are applied to EVERY pooled connection, unlike
		// a one-off "PRAGMA ..." Exec which only reaches whichever
		// connection happened to run it.
		// busy_timeout: wait up to 5s for a competing writer instead of
		// failing immediately with SQLITE_BUSY.
		// journal_mode=WAL: readers don't block the writer and vice versa.
		dsn = "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every new connection to ":memory:" is a brand-new empty database.
	// Pinning the pool to one connection keeps all queries on the same one.
	if dbPath == MemoryPath {
		conn.SetMaxOpenConns(1)
	}

	// Ping verifies the connection actually works.
	// Without this, a bad path or permissions issue would only surface
	// on the first query — which is much harder to debug.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is still reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

// EnsureIndexes creates the users table and its unique email index.
//
// CREATE ... IF NOT EXISTS makes this idempotent, so it is safe to run on every
// start, against both fresh and existing databases.
//
// users_email_key is what enforces "one account per email": two concurrent
// sign-ups with the same address race here, and exactly one INSERT wins.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			full_name     TEXT NOT NULL,
			email         TEXT NOT NULL,
			password_salt TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at    TEXT NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users(email);
	`)
	if err != nil {
		return fmt.Errorf("sqlite: ensuring users indexes: %w", err)
	}
	return nil
}
