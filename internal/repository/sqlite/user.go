package sqlite

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

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser reads the userColumns of one row into a model.User.
// created_at is stored as RFC 3339 text, so it is parsed explicitly.
func scanUser(row rowScanner) (*model.User, error) {
	var (
		u         model.User
		createdAt string
	)
	if err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.PasswordSalt,
		&u.PasswordHash,
		&createdAt,
	); err != nil {
		return nil, err
	}

	t, err := model.ParseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	u.CreatedAt = t
	return &u, nil
}

// Insert stores a new user.
//
// ON CONFLICT(email) DO NOTHING + RETURNING:
// If the unique email index rejects the row, SQLite skips the insert and
// RETURNING yields zero rows, so Scan reports sql.ErrNoRows. That turns the
// duplicate into a plain (false, nil) result instead of a driver-specific
// constraint error we would have to pick apart.
//
// On success, user.ID and user.CreatedAt are filled in place.
func (db *DB) Insert(ctx context.Context, user *model.User) (bool, error) {
	user.ID = xid.New()
	user.CreatedAt = time.Now().UTC()

	var stored xid.ID
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(email) DO NOTHING
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
		return false, fmt.Errorf("sqlite: inserting user: %w", err)
	}

	return true, nil
}

// FindByEmail looks a user up by normalized email.
// Returns apperror.ErrNotFound if no user has that email.
func (db *DB) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`,
		email,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("User")
		}
		return nil, fmt.Errorf("sqlite: finding user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) FindByID(ctx context.Context, id xid.ID) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`,
		id.String(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("User")
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return u, nil
}

// ListAll returns every user, newest first.
//
// ORDER BY id DESC works as "newest first" because xid strings sort in
// creation order. Only the public columns are selected; the password
// salt and hash never leave the database on this path.
func (db *DB) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, full_name, email, created_at
		 FROM users
		 ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	// CRITICAL: always close rows when done!
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var (
			u         model.User
			createdAt string
		)
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		if u.CreatedAt, err = model.ParseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: parsing created_at of %s: %w", u.ID, err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// UpdateName sets full_name and returns the updated user.
//
// UPDATE ... RETURNING does the write and the read-back in one statement.
// Zero returned rows means the WHERE clause matched nothing → not found.
func (db *DB) UpdateName(ctx context.Context, id xid.ID, fullName string) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`UPDATE users SET full_name = ? WHERE id = ? RETURNING `+userColumns,
		fullName,
		id.String(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("User")
		}
		return nil, fmt.Errorf("sqlite: updating user %s: %w", id, err)
	}
	return u, nil
}
