package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/aicademy-auth/internal/model"
	"github.com/sakif/aicademy-auth/internal/service"
)

// UserHandler serves the user directory and profile edits.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

type updateUserRequest struct {
	FullName *string `json:"full_name"`
}

// HandleList returns every user, newest first.
//
// HTTP: GET /users
// RESPONSE 200: {"users": [{"id": "...", "full_name": "...", "email": "...", "created_at": "..."}]}
//
// An empty directory is {"users": []}, never null.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.PublicUser{
		"users": model.PublicUsers(users),
	})
}

// HandleGet returns one user.
//
// HTTP: GET /users/{id}
// RESPONSE 200: {"user": {...}}
// ERRORS:       400 malformed id, 404 no such user
//
// URL PARAMETERS:
// chi.URLParam(r, "id") extracts the {id} segment of the matched route.
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]model.PublicUser{
		"user": user.Public(),
	})
}

// HandleUpdate changes a user's full name. Nothing else is editable.
//
// HTTP: PATCH /users/{id}
// REQUEST BODY: {"full_name": "New Name"}
// RESPONSE 200: {"message": "Profile updated.", "user": {...}}
// ERRORS:       400 malformed id, 404 no such user, 422 validation
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if err := requireField("full_name", req.FullName); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.users.UpdateName(r.Context(), chi.URLParam(r, "id"), *req.FullName)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, userMessageResponse{
		Message: "Profile updated.",
		User:    user.Public(),
	})
}
