package api

import (
	"encoding/json"
	"net/http"

	"github.com/conzex/statuspulse/internal/domain"
	"github.com/conzex/statuspulse/internal/pkg/httputil"
	"github.com/conzex/statuspulse/internal/store"
)

// SetupRequest represents the one-time setup wizard payload.
type SetupRequest struct {
	Profile     string              `json:"profile" validate:"required,oneof=demo dev-with-data clean"`
	SMTP        SMTPSettingsRequest `json:"smtp"`
	Subscribers []string            `json:"subscribers" validate:"dive,email"`
	Theme       string              `json:"theme" validate:"omitempty,oneof=system light dark"`
}

// InitializeEnvironment handles POST /setup. It is unauthenticated but
// only accepted while setup is incomplete; afterwards it returns 409.
func (h *Handler) InitializeEnvironment(w http.ResponseWriter, r *http.Request) {
	if h.store.State().IsSetupComplete {
		httputil.Error(w, http.StatusConflict, "setup already completed")
		return
	}

	var req SetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	err := h.store.InitializeEnvironment(store.SetupConfig{
		Profile: req.Profile,
		SMTP: domain.SMTPSettings{
			Host:   req.SMTP.Host,
			Port:   req.SMTP.Port,
			User:   req.SMTP.User,
			Pass:   req.SMTP.Pass,
			Secure: req.SMTP.Secure,
		},
		Subscribers: req.Subscribers,
		Theme:       domain.Theme(req.Theme),
	})
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: store.ErrInvalidInput, Status: http.StatusBadRequest},
		})
		return
	}

	httputil.Success(w, http.StatusOK, h.store.State())
}

// ResetApplication handles POST /reset. It destroys all runtime state
// and returns the application to the pre-setup default.
func (h *Handler) ResetApplication(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ResetApplication(); err != nil {
		httputil.HandleError(r.Context(), w, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
