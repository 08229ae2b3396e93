// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// UserService takes a repository.UserRepository (interface), NOT a concrete
// *sqlite.DB or *postgres.DB. Tests pass an in-memory fake instead, and
// server.New picks the real backend from config.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/sakif/aicademy-auth/internal/apperror"
	"github.com/sakif/aicademy-auth/internal/auth"
	"github.com/sakif/aicademy-auth/internal/model"
	"github.com/sakif/aicademy-auth/internal/repository"
)

// Validation constants. Lengths are counted in characters (runes), not bytes.
const (
	MinNameLength     = 2
	MaxNameLength     = 120
	MinPasswordLength = 6
	MaxPasswordLength = 200
)

// User-facing messages. The frontend shows these verbatim.
const (
	msgEmailTaken         = "A user with this email already exists."
	msgInvalidCredentials = "Invalid email or password."
	msgInvalidEmail       = "Enter a valid email address."
)

// dummySalt is 16 zero bytes. Sign-in for an unknown email derives against
// it so the response takes as long as a real password check.
const dummySalt = "AAAAAAAAAAAAAAAAAAAAAA=="

// UserService handles sign-up, sign-in and profile management.
type UserService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a UserService with all required dependencies.
func NewUserService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// SignUp validates the input, hashes the password and stores a new user.
//
// RACE-FREE DUPLICATE CHECK:
// There is no "does this email exist?" lookup before the insert. Two
// concurrent sign-ups would both pass such a check. Instead the store's
// unique index decides, and Insert reports created=false for the loser.
func (s *UserService) SignUp(ctx context.Context, fullName, email, password string) (*model.User, error) {
	fullName, err := validateName(fullName)
	if err != nil {
		return nil, err
	}
	email, err = validateEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	salt, hash, err := s.passwords.CreateRecord(password)
	if err != nil {
		s.logger.Error("failed to create password record", slog.String("error", err.Error()))
		return nil, fmt.Errorf("signing up: %w", err)
	}

	user := &model.User{
		FullName:     fullName,
		Email:        email,
		PasswordSalt: salt,
		PasswordHash: hash,
	}

	created, err := s.users.Insert(ctx, user)
	if err != nil {
		s.logger.Error("failed to insert user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("signing up: %w", err)
	}
	if !created {
		s.logger.Info("sign-up rejected, email taken", slog.String("email", email))
		return nil, apperror.Conflict(msgEmailTaken)
	}

	s.logger.Info("user created",
		slog.String("id", user.ID.String()),
		slog.String("email", user.Email),
	)

	return user, nil
}

// SignIn checks an email/password pair.
//
// Unknown email and wrong password return the SAME error, so a caller cannot
// probe which addresses have accounts.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	email, err := validateEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.passwords.Verify(password, dummySalt, "")
			s.logger.Warn("sign-in failed", slog.String("email", email), slog.String("reason", "unknown email"))
			return nil, apperror.Unauthorized(msgInvalidCredentials)
		}
		s.logger.Error("failed to look up user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("signing in: %w", err)
	}

	if !s.passwords.Verify(password, user.PasswordSalt, user.PasswordHash) {
		s.logger.Warn("sign-in failed", slog.String("email", email), slog.String("reason", "wrong password"))
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}

	s.logger.Info("user signed in", slog.String("id", user.ID.String()))
	return user, nil
}

// List returns every user, newest first.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// Get retrieves a user by the external form of its ID.
// Returns apperror.ErrInvalidID for a malformed ID and apperror.ErrNotFound
// for a well-formed one that matches nobody.
func (s *UserService) Get(ctx context.Context, rawID string) (*model.User, error) {
	id, err := model.ParseID(rawID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get user",
			slog.String("id", rawID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

// UpdateName changes a user's display name.
//
// The name is validated before the ID is parsed, so a request that is wrong
// in both ways reports the name problem.
func (s *UserService) UpdateName(ctx context.Context, rawID, fullName string) (*model.User, error) {
	fullName, err := validateName(fullName)
	if err != nil {
		return nil, err
	}

	id, err := model.ParseID(rawID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.UpdateName(ctx, id, fullName)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update user",
			slog.String("id", rawID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.logger.Info("profile updated",
		slog.String("id", user.ID.String()),
		slog.String("full_name", user.FullName),
	)
	return user, nil
}

// =========================================================================
// VALIDATION
// =========================================================================

// validateName trims the name and checks its length.
func validateName(name string) (string, error) {
	name = model.NormalizeName(name)
	if n := utf8.RuneCountInString(name); n < MinNameLength || n > MaxNameLength {
		return "", apperror.ValidationFailed("full_name",
			fmt.Sprintf("Full name must be between %d and %d characters.", MinNameLength, MaxNameLength))
	}
	return name, nil
}

// validateEmail normalizes the address and checks it is a bare addr-spec
// with a dotted domain ("Name <a@b.c>" and "a@localhost" are rejected).
func validateEmail(email string) (string, error) {
	email = model.NormalizeEmail(email)

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return "", apperror.ValidationFailed("email", msgInvalidEmail)
	}

	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", apperror.ValidationFailed("email", msgInvalidEmail)
	}

	return email, nil
}

// validatePassword checks length only; passwords are never trimmed.
func validatePassword(password string) error {
	if n := utf8.RuneCountInString(password); n < MinPasswordLength || n > MaxPasswordLength {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("Password must be between %d and %d characters.", MinPasswordLength, MaxPasswordLength))
	}
	return nil
}
