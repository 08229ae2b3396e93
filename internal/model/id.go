package model

import (
	"github.com/rs/xid"

	"github.com/sakif/aicademy-auth/internal/apperror"
)

// ParseID converts the external string form of a user ID (20 characters of
// lowercase base32hex, e.g. "9m4e2mr0ui3e8a215n4g") into an xid.ID.
//
// Anything that is not structurally valid (wrong length, characters outside
// the alphabet, surrounding whitespace) is rejected with
// apperror.ErrInvalidID, which handlers map to 400 Bad Request. A well-formed
// ID that matches no user is a different failure (404) and is detected by
// the repository, not here.
func ParseID(raw string) (xid.ID, error) {
	id, err := xid.FromString(raw)
	if err != nil {
		return xid.NilID(), apperror.InvalidIdentifier("user")
	}
	return id, nil
}
