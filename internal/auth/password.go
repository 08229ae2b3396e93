// Package auth — password hashing utilities.
//
// WHY PBKDF2?
// PBKDF2 applies an HMAC (here HMAC-SHA256) to the password and salt
// thousands of times. That repetition is deliberate: a single guess costs an
// attacker the same 100 000 HMAC rounds it costs us at sign-in.
//
// Unlike bcrypt, PBKDF2 does NOT embed the salt in its output, so each user
// row stores two columns:
//
//	password_salt  base64(16 random bytes)
//	password_hash  base64(PBKDF2-HMAC-SHA256(password, salt, 100000, 32))
//
// Both use standard (padded) base64, so records written by other clients of
// the same users collection verify here and vice versa.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// defaultIterations is the PBKDF2 round count for every stored hash.
	// Changing it invalidates all existing password hashes.
	defaultIterations = 100_000

	// SaltSize is the number of random bytes generated per user.
	SaltSize = 16

	// keySize is the derived key length: one SHA-256 block.
	keySize = sha256.Size
)

// PasswordService derives and verifies salted PBKDF2 password hashes.
//
// It's a struct (not free functions) so that the iteration count can be
// injected in tests. A thousand rounds keeps tests in milliseconds
// without changing the logic being tested.
type PasswordService struct {
	iterations int
}

// NewPasswordService creates a PasswordService with the production
// iteration count (100 000).
func NewPasswordService() *PasswordService {
	return &PasswordService{iterations: defaultIterations}
}

// NewPasswordServiceForTest creates a PasswordService with a custom
// iteration count. Use this in tests in other packages.
//
// Do NOT use in production: hashes produced with a different count
// will not verify against the production service.
func NewPasswordServiceForTest(iterations int) *PasswordService {
	if iterations < 1 {
		iterations = 1
	}
	return &PasswordService{iterations: iterations}
}

// Derive computes the base64-encoded PBKDF2 hash of password with salt.
//
// Deterministic: the same password and salt always yield the same string,
// which is what lets Verify re-derive and compare.
func (p *PasswordService) Derive(password string, salt []byte) string {
	key := pbkdf2.Key([]byte(password), salt, p.iterations, keySize, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}

// CreateRecord generates a fresh random salt and derives the hash for it.
// It returns both values base64-encoded, ready to store.
func (p *PasswordService) CreateRecord(password string) (saltB64, hashB64 string, err error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", "", fmt.Errorf("auth: generating salt: %w", err)
	}

	return base64.StdEncoding.EncodeToString(salt), p.Derive(password, salt), nil
}

// Verify reports whether password matches a stored salt/hash pair.
//
// TIMING SAFETY:
// subtle.ConstantTimeCompare takes the same time regardless of where the
// first differing byte is, so response time leaks nothing about how close
// a guess was.
//
// A salt that is not valid base64 never matches.
func (p *PasswordService) Verify(password, saltB64, expectedHashB64 string) bool {
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return false
	}

	computed := p.Derive(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(expectedHashB64)) == 1
}
