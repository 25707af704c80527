package api

import (
	"encoding/json"
	"net/http"

	"github.com/conzex/statuspulse/internal/domain"
	"github.com/conzex/statuspulse/internal/pkg/httputil"
	"github.com/conzex/statuspulse/internal/store"
	"github.com/go-chi/chi/v5"
)

var catalogErrorMappings = []httputil.ErrorMapping{
	{Error: store.ErrGroupNotFound, Status: http.StatusNotFound},
	{Error: store.ErrServiceNotFound, Status: http.StatusNotFound},
	{Error: store.ErrInvalidInput, Status: http.StatusBadRequest},
}

// GroupRequest represents the request body for creating or updating a
// service group.
type GroupRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=1024"`
}

// CreateGroup handles POST /groups.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req GroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	group, err := h.store.AddServiceGroup(req.Name, req.Description)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, catalogErrorMappings)
		return
	}

	httputil.Success(w, http.StatusCreated, group)
}

// UpdateGroup handles PUT /groups/{id}.
func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req GroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	if err := h.store.UpdateServiceGroup(id, req.Name, req.Description); err != nil {
		httputil.HandleError(r.Context(), w, err, catalogErrorMappings)
		return
	}

	group, _ := h.store.FindGroup(id)
	httputil.Success(w, http.StatusOK, group)
}

// DeleteGroup handles DELETE /groups/{id}. Services in the group are
// deleted with it.
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteServiceGroup(id); err != nil {
		httputil.HandleError(r.Context(), w, err, catalogErrorMappings)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateServiceRequest represents the request body for creating a service.
type CreateServiceRequest struct {
	GroupID                string `json:"group_id" validate:"required"`
	Name                   string `json:"name" validate:"required,min=1,max=255"`
	Description            string `json:"description" validate:"max=1024"`
	Type                   string `json:"type" validate:"required"`
	URL                    string `json:"url"`
	Port                   int    `json:"port" validate:"min=0,max=65535"`
	SSLExpiryDays          *int   `json:"ssl_expiry_days"`
	PubliclyDisplayDetails bool   `json:"publicly_display_details"`
}

// CreateService handles POST /admin/services.
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	svcType := domain.ServiceType(req.Type)
	if !svcType.IsValid() {
		httputil.Error(w, http.StatusBadRequest, "unknown service type")
		return
	}

	service, err := h.store.AddService(store.ServiceInput{
		Name:                   req.Name,
		Description:            req.Description,
		Type:                   svcType,
		URL:                    req.URL,
		Port:                   req.Port,
		SSLExpiryDays:          req.SSLExpiryDays,
		PubliclyDisplayDetails: req.PubliclyDisplayDetails,
	}, req.GroupID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, catalogErrorMappings)
		return
	}

	httputil.Success(w, http.StatusCreated, service)
}

// UpdateServiceRequest is a merge patch; absent fields are left unchanged.
type UpdateServiceRequest struct {
	Name                   *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description            *string `json:"description" validate:"omitempty,max=1024"`
	Type                   *string `json:"type"`
	URL                    *string `json:"url"`
	Port                   *int    `json:"port" validate:"omitempty,min=0,max=65535"`
	Status                 *string `json:"status"`
	CurrentLatencyMs       *int    `json:"current_latency_ms"`
	SSLExpiryDays          *int    `json:"ssl_expiry_days"`
	PubliclyDisplayDetails *bool   `json:"publicly_display_details"`
}

// UpdateService handles PATCH /admin/services/{id}.
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	patch := store.ServicePatch{
		Name:                   req.Name,
		Description:            req.Description,
		URL:                    req.URL,
		Port:                   req.Port,
		CurrentLatencyMs:       req.CurrentLatencyMs,
		SSLExpiryDays:          req.SSLExpiryDays,
		PubliclyDisplayDetails: req.PubliclyDisplayDetails,
	}

	if req.Type != nil {
		svcType := domain.ServiceType(*req.Type)
		if !svcType.IsValid() {
			httputil.Error(w, http.StatusBadRequest, "unknown service type")
			return
		}
		patch.Type = &svcType
	}

	if req.Status != nil {
		status := domain.ServiceStatus(*req.Status)
		if !status.IsValid() {
			httputil.Error(w, http.StatusBadRequest, "unknown service status")
			return
		}
		patch.Status = &status
	}

	service, err := h.store.UpdateService(id, patch)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, catalogErrorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, service)
}

// DeleteService handles DELETE /admin/services/{id}.
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteService(id); err != nil {
		httputil.HandleError(r.Context(), w, err, catalogErrorMappings)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
