package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/aicademy-auth/internal/model"
	"github.com/sakif/aicademy-auth/internal/service"
)

// AuthHandler serves account creation and credential checks.
//
// HANDLER RESPONSIBILITIES:
//   - HandleSignUp → POST /auth/signup
//   - HandleSignIn → POST /auth/signin
//
// No session or token is issued: a successful sign-in just returns the
// public profile, and the frontend keeps it.
type AuthHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users *service.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		logger: logger,
	}
}

type signUpRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type signInRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// userMessageResponse is the body of every successful mutating call.
type userMessageResponse struct {
	Message string           `json:"message"`
	User    model.PublicUser `json:"user"`
}

// HandleSignUp creates an account.
//
// HTTP: POST /auth/signup
// REQUEST BODY:  {"full_name": "Ada Lovelace", "email": "ada@example.com", "password": "..."}
// RESPONSE 200:  {"message": "Account created successfully.", "user": {...}}
// ERRORS:        409 email taken, 422 validation
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"full_name", req.FullName},
		{"email", req.Email},
		{"password", req.Password},
	} {
		if err := requireField(f.name, f.value); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}

	user, err := h.users.SignUp(r.Context(), *req.FullName, *req.Email, *req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, userMessageResponse{
		Message: "Account created successfully.",
		User:    user.Public(),
	})
}

// HandleSignIn checks an email/password pair.
//
// HTTP: POST /auth/signin
// REQUEST BODY:  {"email": "ada@example.com", "password": "..."}
// RESPONSE 200:  {"message": "Signed in successfully.", "user": {...}}
// ERRORS:        401 bad credentials, 422 validation
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if err := requireField("email", req.Email); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := requireField("password", req.Password); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.users.SignIn(r.Context(), *req.Email, *req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, userMessageResponse{
		Message: "Signed in successfully.",
		User:    user.Public(),
	})
}
