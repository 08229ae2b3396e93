package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/aicademy-auth/internal/apperror"
)

func TestPublic_ExcludesPasswordFields(t *testing.T) {
	u := &User{
		ID:           xid.New(),
		FullName:     "Ada Lovelace",
		Email:        "ada@example.com",
		PasswordSalt: "c2FsdHNhbHRzYWx0c2FsdA==",
		PasswordHash: "aGFzaGhhc2hoYXNoaGFzaA==",
		CreatedAt:    time.Date(2024, 3, 1, 12, 30, 0, 123456000, time.UTC),
	}

	body, err := json.Marshal(u.Public())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(body, &fields))

	assert.Len(t, fields, 4)
	assert.Equal(t, u.ID.String(), fields["id"])
	assert.Equal(t, "Ada Lovelace", fields["full_name"])
	assert.Equal(t, "ada@example.com", fields["email"])
	assert.Equal(t, "2024-03-01T12:30:00.123456Z", fields["created_at"])
	assert.NotContains(t, string(body), u.PasswordSalt)
	assert.NotContains(t, string(body), u.PasswordHash)
}

func TestUser_MarshalDirectlyLeaksNothing(t *testing.T) {
	// Even if someone encodes the stored struct by mistake, the
	// json:"-" tags keep the credentials out.
	body, err := json.Marshal(User{PasswordSalt: "salt-value", PasswordHash: "hash-value"})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(body))
}

func TestPublicUsers_NeverNil(t *testing.T) {
	body, err := json.Marshal(PublicUsers(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct{ in, want string }{
		{"A@B.com", "a@b.com"},
		{"  Mixed.Case@Example.ORG \t", "mixed.case@example.org"},
		{"already@lower.io", "already@lower.io"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeEmail(tt.in), "NormalizeEmail(%q)", tt.in)
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Grace Hopper", NormalizeName("  Grace Hopper \n"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestTimestamp_RoundTrip(t *testing.T) {
	in := time.Date(2025, 1, 2, 3, 4, 5, 6, time.FixedZone("X", 3600))

	out, err := ParseTimestamp(FormatTimestamp(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
	assert.Equal(t, time.UTC, out.Location())
}

func TestParseID(t *testing.T) {
	valid := xid.New()

	t.Run("canonical string parses", func(t *testing.T) {
		id, err := ParseID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, valid, id)
	})

	malformed := []string{
		"",
		"not-an-id",
		strings.ToUpper(valid.String()),
		valid.String() + "0",
		" " + valid.String(),
		"507f1f77bcf86cd799439011", // a 24-char hex id is not ours
	}
	for _, raw := range malformed {
		t.Run("rejects "+raw, func(t *testing.T) {
			_, err := ParseID(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrInvalidID))
			assert.Equal(t, "Invalid user id.", err.Error())
		})
	}
}

func TestID_OrderFollowsCreation(t *testing.T) {
	// String order must equal creation order; listing relies on it.
	a, b, c := xid.New(), xid.New(), xid.New()
	assert.Less(t, a.String(), b.String())
	assert.Less(t, b.String(), c.String())
}
