package api

import (
	"encoding/json"
	"net/http"

	"github.com/conzex/statuspulse/internal/domain"
	"github.com/conzex/statuspulse/internal/pkg/httputil"
	"github.com/conzex/statuspulse/internal/store"
)

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login response.
type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	user, err := h.store.Login(req.Username, req.Password)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: store.ErrInvalidCredentials, Status: http.StatusUnauthorized},
		})
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, nil)
		return
	}

	httputil.Success(w, http.StatusOK, LoginResponse{Token: token, User: user})
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.store.Logout()
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireCurrentUser(w, r)
	if !ok {
		return
	}
	httputil.Success(w, http.StatusOK, user)
}

// ChangeOwnPasswordRequest represents a voluntary password change.
type ChangeOwnPasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ChangeOwnPassword handles PUT /me/password. The old password must
// verify against the stored hash.
func (h *Handler) ChangeOwnPassword(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireCurrentUser(w, r)
	if !ok {
		return
	}

	var req ChangeOwnPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	if err := h.store.ChangeUserPassword(user.ID, req.OldPassword, req.NewPassword); err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: store.ErrPasswordMismatch, Status: http.StatusBadRequest},
			{Error: store.ErrUserNotFound, Status: http.StatusNotFound},
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CompletePasswordChangeRequest represents the forced first-login
// password change.
type CompletePasswordChangeRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// CompletePasswordChange handles POST /auth/password. Used when the
// account is flagged for a mandatory password change; no old password is
// required because the user just authenticated with it.
func (h *Handler) CompletePasswordChange(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireCurrentUser(w, r)
	if !ok {
		return
	}

	var req CompletePasswordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	if err := h.store.ChangePassword(user.ID, req.NewPassword); err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: store.ErrUserNotFound, Status: http.StatusNotFound},
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
