// Package postgres implements repository.UserRepository on PostgreSQL.
//
// It talks to the server through database/sql with the pgx stdlib driver,
// so the query code looks the same as the sqlite package and unit tests can
// swap the pool for a sqlmock connection.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sakif/aicademy-auth/internal/repository"
)

var _ repository.UserRepository = (*DB)(nil)

// DB is a PostgreSQL-backed user repository.
type DB struct {
	conn *sql.DB
}

// New opens a connection pool for dsn and verifies it with a ping.
func New(ctx context.Context, dsn string) (*DB, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: opening database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// NewFromConn wraps an already opened pool.
func NewFromConn(conn *sql.DB) *DB {
	return &DB{conn: conn}
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}

// EnsureIndexes creates the users table and the unique email index.
//
// id uses COLLATE "C" so ORDER BY id compares bytes, which keeps xid
// creation order regardless of the database's default locale.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT COLLATE "C" PRIMARY KEY,
			full_name     TEXT NOT NULL,
			email         TEXT NOT NULL,
			password_salt TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at    TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("postgres: creating users table: %w", err)
	}

	if _, err := db.conn.ExecContext(ctx,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email)`,
	); err != nil {
		return fmt.Errorf("postgres: creating users_email_key: %w", err)
	}

	return nil
}
