package api

import (
	"encoding/json"
	"net/http"

	"github.com/conzex/statuspulse/internal/pkg/httputil"
	"github.com/conzex/statuspulse/internal/store"
	"github.com/go-chi/chi/v5"
)

// ListSubscribers handles GET /admin/subscribers.
func (h *Handler) ListSubscribers(w http.ResponseWriter, _ *http.Request) {
	httputil.Success(w, http.StatusOK, h.store.State().Subscribers)
}

// ImportSubscribersRequest carries a comma- or newline-separated list of
// email addresses.
type ImportSubscribersRequest struct {
	Data string `json:"data" validate:"required"`
}

// ImportSubscribers handles POST /admin/subscribers/import. The response
// reports exactly how many addresses were imported, skipped as
// duplicates or rejected as invalid.
func (h *Handler) ImportSubscribers(w http.ResponseWriter, r *http.Request) {
	var req ImportSubscribersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, h.store.ImportSubscribers(req.Data))
}

// ExportSubscribers handles GET /admin/subscribers/export. The body is a
// newline-separated plain text list suitable for re-import.
func (h *Handler) ExportSubscribers(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Disposition", `attachment; filename="subscribers.txt"`)
	httputil.Text(w, http.StatusOK, h.store.ExportSubscribers())
}

// DeleteSubscriber handles DELETE /admin/subscribers/{id}.
func (h *Handler) DeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteSubscriber(id); err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: store.ErrSubscriberNotFound, Status: http.StatusNotFound},
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
