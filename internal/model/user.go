// Package model defines the data structures used throughout the application.
package model

import (
	"strings"
	"time"

	"github.com/rs/xid"
)

// User is a stored account document.
//
// The password fields are tagged json:"-" so that even an accidental
// json.Marshal(user) can never put them on the wire. API responses go
// through Public() instead.
//
// WHY xid FOR THE ID?
// An xid is 12 bytes: a 4-byte timestamp (seconds), machine id, process id
// and an incrementing counter. Sorting by ID therefore sorts by creation
// time, which is how "newest first" listing works without a separate index.
type User struct {
	ID           xid.ID    `json:"-"`
	FullName     string    `json:"-"`
	Email        string    `json:"-"` // always normalized (see NormalizeEmail)
	PasswordSalt string    `json:"-"` // base64, 16 bytes
	PasswordHash string    `json:"-"` // base64 PBKDF2 output
	CreatedAt    time.Time `json:"-"` // UTC
}

// PublicUser is the API-facing representation of a User.
type PublicUser struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// Public maps a stored user to its API representation, dropping the
// password salt and hash.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID.String(),
		FullName:  u.FullName,
		Email:     u.Email,
		CreatedAt: FormatTimestamp(u.CreatedAt),
	}
}

// PublicUsers maps a slice of stored users. The result is never nil, so it
// always encodes as a JSON array.
func PublicUsers(users []User) []PublicUser {
	out := make([]PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out
}

// NormalizeEmail trims and lowercases an email address. The normalized form
// is what gets stored and what the unique index compares.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeName trims surrounding whitespace from a display name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// FormatTimestamp renders t in UTC as RFC 3339 with nanoseconds.
// Both the API and the stores use this format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp is the inverse of FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
