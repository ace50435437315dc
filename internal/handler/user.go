package handler

import (
	"log/slog"
	"net/http"

	"allmanager/internal/domain/models"
	"allmanager/internal/domain/services"
	"allmanager/internal/httputil"
)

// UserHandler handles user account requests. Every route is admin-only.
type UserHandler struct {
	userService services.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService services.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

type createUserBody struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type updateUserBody struct {
	Name     httputil.OptionalString        `json:"name"`
	Email    httputil.OptionalString        `json:"email"`
	Password httputil.OptionalString        `json:"password"`
	Role     httputil.Optional[models.Role] `json:"role"`
}

// ListUsers lists all accounts, newest first
// GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, users)
}

// CreateUser creates an account
// POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body createUserBody
	if !readJSON(w, r, h.logger, &body) {
		return
	}

	user, err := h.userService.CreateUser(r.Context(), &services.CreateUserRequest{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Role:     body.Role,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, user)
}

// GetUser retrieves an account by ID
// GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, user)
}

// UpdateUser changes the fields present in the body
// PUT|PATCH /api/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	var body updateUserBody
	if !readJSON(w, r, h.logger, &body) {
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), id, &services.UpdateUserRequest{
		Name:     body.Name.Domain(),
		Email:    body.Email.Domain(),
		Password: body.Password.Domain(),
		Role:     body.Role.Domain(),
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, user)
}

// DeleteUser deletes an account other than the caller's
// DELETE /api/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(r.Context(), principal(r).UserID, id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondNoContent(w)
}
