package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/justai-labs/justai-engine/pkg/services"
)

// CreateUserRequest is the request body for registering a user.
type CreateUserRequest struct {
	UserName string `json:"user_name"`
}

// EditUserRequest is the request body for renaming a user.
type EditUserRequest struct {
	NewUserName string `json:"new_user_name"`
}

// UsersHandler handles user-related HTTP requests.
type UsersHandler struct {
	userService services.UserService
	logger      *zap.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(userService services.UserService, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers the users handler's routes on the given mux.
func (h *UsersHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users", h.List)
	mux.HandleFunc("POST /api/users", h.Create)
	mux.HandleFunc("PUT /api/users/{name}", h.Edit)
	mux.HandleFunc("DELETE /api/users/{name}", h.Delete)
}

// List handles GET /api/users
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetAll(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list_failed", "Failed to list users")
		return
	}

	if err := WriteJSON(w, http.StatusOK, users); err != nil {
		h.logger.Error("Failed to encode users response", zap.Error(err))
	}
}

// Create handles POST /api/users
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.UserName == "" {
		respondError(w, h.logger, http.StatusBadRequest, "missing_user_name", "User name is required")
		return
	}

	if err := h.userService.Create(r.Context(), req.UserName); err != nil {
		respondServiceError(w, h.logger, err, "create_failed", "Failed to create user")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Edit handles PUT /api/users/{name}
func (h *UsersHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req EditUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.NewUserName == "" {
		respondError(w, h.logger, http.StatusBadRequest, "missing_user_name", "New user name is required")
		return
	}

	if err := h.userService.Edit(r.Context(), r.PathValue("name"), req.NewUserName); err != nil {
		respondServiceError(w, h.logger, err, "edit_failed", "Failed to edit user")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Delete handles DELETE /api/users/{name}
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.Delete(r.Context(), r.PathValue("name")); err != nil {
		respondServiceError(w, h.logger, err, "delete_failed", "Failed to delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
