package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/conzex/statuspulse/internal/domain"
	"github.com/conzex/statuspulse/internal/pkg/httputil"
	"github.com/conzex/statuspulse/internal/store"
)

// StatusResponse is the public status page payload.
type StatusResponse struct {
	ServiceGroups   []domain.ServiceGroup `json:"service_groups"`
	Incidents       []domain.Incident     `json:"incidents"`
	AppSettings     domain.AppSettings    `json:"app_settings"`
	Theme           domain.Theme          `json:"theme"`
	LastUpdated     time.Time             `json:"last_updated"`
	IsSetupComplete bool                  `json:"is_setup_complete"`
}

// GetStatus handles GET /status. It is the single read the public page
// needs: groups with their services, incidents newest-first and branding.
func (h *Handler) GetStatus(w http.ResponseWriter, _ *http.Request) {
	state := h.store.State()

	httputil.Success(w, http.StatusOK, StatusResponse{
		ServiceGroups:   state.ServiceGroups,
		Incidents:       state.Incidents,
		AppSettings:     state.AppSettings,
		Theme:           state.Theme,
		LastUpdated:     state.LastUpdated,
		IsSetupComplete: state.IsSetupComplete,
	})
}

// ListServices handles GET /services.
func (h *Handler) ListServices(w http.ResponseWriter, _ *http.Request) {
	httputil.Success(w, http.StatusOK, h.store.AllServices())
}

// SubscribeRequest represents the public subscription request.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Subscribe handles POST /subscribers.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	sub, err := h.store.AddSubscriber(req.Email)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: store.ErrSubscriberExists, Status: http.StatusConflict},
			{Error: store.ErrInvalidInput, Status: http.StatusBadRequest},
		})
		return
	}

	httputil.Success(w, http.StatusCreated, sub)
}
