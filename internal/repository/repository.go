package repository

import (
	"context"

	"github.com/rs/xid"

	"github.com/sakif/aicademy-auth/internal/model"
)

// UserRepository persists user documents. Lookups that match nothing return
// an error wrapping apperror.ErrNotFound.
type UserRepository interface {
	// EnsureIndexes creates the users collection and its unique email index
	// if they are missing. Safe to call on every start.
	EnsureIndexes(ctx context.Context) error

	// Insert assigns user.ID and stores the user. created is false (with a
	// nil error) when another user already holds the same email.
	Insert(ctx context.Context, user *model.User) (created bool, err error)

	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id xid.ID) (*model.User, error)

	// ListAll returns every user, newest first, without password fields.
	ListAll(ctx context.Context) ([]model.User, error)

	UpdateName(ctx context.Context, id xid.ID, fullName string) (*model.User, error)

	Ping(ctx context.Context) error
	Close() error
}
