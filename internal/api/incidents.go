package api

import (
	"encoding/json"
	"net/http"

	"github.com/conzex/statuspulse/internal/domain"
	"github.com/conzex/statuspulse/internal/pkg/ctxlog"
	"github.com/conzex/statuspulse/internal/pkg/httputil"
	"github.com/conzex/statuspulse/internal/reports"
	"github.com/conzex/statuspulse/internal/store"
	"github.com/go-chi/chi/v5"
)

var incidentErrorMappings = []httputil.ErrorMapping{
	{Error: store.ErrIncidentNotFound, Status: http.StatusNotFound},
	{Error: store.ErrInvalidInput, Status: http.StatusBadRequest},
}

// CreateIncidentRequest represents the request body for opening an incident.
type CreateIncidentRequest struct {
	Title              string   `json:"title" validate:"required,min=1,max=255"`
	Priority           string   `json:"priority" validate:"required,oneof=critical high medium low"`
	AffectedServiceIDs []string `json:"affected_service_ids"`
	InitialStatus      string   `json:"initial_status" validate:"required,oneof=investigating identified monitoring resolved"`
	InitialMessage     string   `json:"initial_message" validate:"required,min=1"`
}

// CreateIncident handles POST /incidents.
func (h *Handler) CreateIncident(w http.ResponseWriter, r *http.Request) {
	var req CreateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	incident, err := h.store.AddIncident(r.Context(), store.IncidentInput{
		Title:              req.Title,
		Priority:           domain.IncidentPriority(req.Priority),
		AffectedServiceIDs: req.AffectedServiceIDs,
		InitialStatus:      domain.IncidentStatus(req.InitialStatus),
		InitialMessage:     req.InitialMessage,
	})
	if err != nil {
		httputil.HandleError(r.Context(), w, err, incidentErrorMappings)
		return
	}

	httputil.Success(w, http.StatusCreated, incident)
}

// AddIncidentUpdateRequest represents the request body for posting an update.
type AddIncidentUpdateRequest struct {
	Status  string `json:"status" validate:"required,oneof=investigating identified monitoring resolved"`
	Message string `json:"message" validate:"required,min=1"`
}

// AddIncidentUpdate handles POST /incidents/{id}/updates.
func (h *Handler) AddIncidentUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AddIncidentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	update, err := h.store.AddIncidentUpdate(r.Context(), id, domain.IncidentStatus(req.Status), req.Message)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, incidentErrorMappings)
		return
	}

	httputil.Success(w, http.StatusCreated, update)
}

// DraftResponse carries generated incident copy.
type DraftResponse struct {
	Message string `json:"message"`
}

// DraftInitialReportRequest represents the request body for drafting the
// first public update of a new incident.
type DraftInitialReportRequest struct {
	ServiceName  string `json:"service_name" validate:"required"`
	IssueDetails string `json:"issue_details" validate:"required"`
}

// DraftInitialReport handles POST /incidents/draft. Generation failures
// degrade to a fallback message rather than an error status.
func (h *Handler) DraftInitialReport(w http.ResponseWriter, r *http.Request) {
	var req DraftInitialReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	message, err := h.reports.InitialReport(r.Context(), req.ServiceName, req.IssueDetails)
	if err != nil {
		ctxlog.FromContext(r.Context()).Error("initial report generation failed", "error", err)
		message = reports.FallbackInitial
	}

	httputil.Success(w, http.StatusOK, DraftResponse{Message: message})
}

// DraftFollowUpRequest represents the request body for drafting a
// status-transition update.
type DraftFollowUpRequest struct {
	Status string `json:"status" validate:"required,oneof=investigating identified monitoring resolved"`
}

// DraftFollowUp handles POST /incidents/{id}/updates/draft.
func (h *Handler) DraftFollowUp(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req DraftFollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	incident, ok := h.store.FindIncident(id)
	if !ok {
		httputil.Error(w, http.StatusNotFound, store.ErrIncidentNotFound.Error())
		return
	}

	message, err := h.reports.FollowUp(r.Context(), incident.Title, domain.IncidentStatus(req.Status), incident.Updates)
	if err != nil {
		ctxlog.FromContext(r.Context()).Error("follow-up generation failed", "error", err)
		message = reports.FallbackFollowUp
	}

	httputil.Success(w, http.StatusOK, DraftResponse{Message: message})
}
