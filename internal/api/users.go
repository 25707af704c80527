package api

import (
	"encoding/json"
	"net/http"

	"github.com/conzex/statuspulse/internal/domain"
	"github.com/conzex/statuspulse/internal/pkg/httputil"
	"github.com/conzex/statuspulse/internal/store"
	"github.com/go-chi/chi/v5"
)

var userErrorMappings = []httputil.ErrorMapping{
	{Error: store.ErrUserNotFound, Status: http.StatusNotFound},
	{Error: store.ErrUsernameTaken, Status: http.StatusConflict},
	{Error: store.ErrLastSuperAdmin, Status: http.StatusConflict},
	{Error: store.ErrInvalidInput, Status: http.StatusBadRequest},
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(w http.ResponseWriter, _ *http.Request) {
	httputil.Success(w, http.StatusOK, h.store.State().Users)
}

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=255"`
	Role     string `json:"role" validate:"required,oneof=viewer manager super_admin"`
	Password string `json:"password" validate:"required,min=6"`
}

// CreateUser handles POST /users. The account is created with a
// mandatory password change on first login.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	user, err := h.store.AddUser(req.Username, domain.Role(req.Role), req.Password)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, userErrorMappings)
		return
	}

	httputil.Success(w, http.StatusCreated, user)
}

// DeleteUser handles DELETE /users/{id}. Removing the final super_admin
// is refused.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteUser(id); err != nil {
		httputil.HandleError(r.Context(), w, err, userErrorMappings)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ForcePasswordReset handles POST /users/{id}/force-password-reset.
func (h *Handler) ForcePasswordReset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.ForcePasswordReset(id); err != nil {
		httputil.HandleError(r.Context(), w, err, userErrorMappings)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
