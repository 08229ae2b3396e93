package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/aicademy-auth/internal/apperror"
	"github.com/sakif/aicademy-auth/internal/model"
)

const userColumns = `id, full_name, email, password_salt, password_hash, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u         model.User
		createdAt string
	)
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordSalt, &u.PasswordHash, &createdAt); err != nil {
		return nil, err
	}

	t, err := model.ParseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	u.CreatedAt = t
	return &u, nil
}

// Insert stores a new user; a taken email yields (false, nil).
func (db *DB) Insert(ctx context.Context, user *model.User) (bool, error) {
	user.ID = xid.New()
	user.CreatedAt = time.Now().UTC()

	var stored xid.ID
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (email) DO NOTHING
		 RETURNING id`,
		user.ID.String(),
		user.FullName,
		user.Email,
		user.PasswordSalt,
		user.PasswordHash,
		model.FormatTimestamp(user.CreatedAt),
	).Scan(&stored)

	if errors.Is(err, sql.ErrNoRows) {
		user.ID = xid.NilID()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("postgres: inserting user: %w", err)
	}

	return true, nil
}

func (db *DB) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("User")
		}
		return nil, fmt.Errorf("postgres: finding user by email: %w", err)
	}
	return u, nil
}

func (db *DB) FindByID(ctx context.Context, id xid.ID) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id.String(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("User")
		}
		return nil, fmt.Errorf("postgres: getting user %s: %w", id, err)
	}
	return u, nil
}

// ListAll returns every user newest first, public columns only.
func (db *DB) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, full_name, email, created_at FROM users ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var (
			u         model.User
			createdAt string
		)
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &createdAt); err != nil {
			return nil, fmt.Errorf("postgres: scanning user row: %w", err)
		}
		if u.CreatedAt, err = model.ParseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("postgres: parsing created_at of %s: %w", u.ID, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating users: %w", err)
	}

	return users, nil
}

func (db *DB) UpdateName(ctx context.Context, id xid.ID, fullName string) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`UPDATE users SET full_name = $1 WHERE id = $2 RETURNING `+userColumns,
		fullName,
		id.String(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("User")
		}
		return nil, fmt.Errorf("postgres: updating user %s: %w", id, err)
	}
	return u, nil
}
