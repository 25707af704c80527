// Package api exposes the application state over a JSON HTTP API.
package api

import (
	"net/http"

	"github.com/conzex/statuspulse/internal/domain"
	"github.com/conzex/statuspulse/internal/pkg/httputil"
	"github.com/conzex/statuspulse/internal/reports"
	"github.com/conzex/statuspulse/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests over the application store.
type Handler struct {
	store     *store.Store
	reports   reports.Generator
	auth      *Authenticator
	validator *validator.Validate
}

// NewHandler creates a new API handler.
func NewHandler(st *store.Store, gen reports.Generator, auth *Authenticator) *Handler {
	return &Handler{
		store:     st,
		reports:   gen,
		auth:      auth,
		validator: validator.New(),
	}
}

// RegisterPublicRoutes registers routes that require no authentication.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/status", h.GetStatus)
	r.Get("/services", h.ListServices)
	r.Post("/subscribers", h.Subscribe)
	r.Post("/auth/login", h.Login)
	r.Post("/setup", h.InitializeEnvironment)
}

// RegisterProtectedRoutes registers routes for any authenticated user.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/logout", h.Logout)
	r.Get("/me", h.Me)
	r.Put("/me/password", h.ChangeOwnPassword)
	r.Post("/auth/password", h.CompletePasswordChange)
}

// RegisterManagerRoutes registers routes that require the manager role.
func (h *Handler) RegisterManagerRoutes(r chi.Router) {
	r.Use(h.requirePasswordCurrent)

	r.Route("/groups", func(r chi.Router) {
		r.Post("/", h.CreateGroup)
		r.Put("/{id}", h.UpdateGroup)
		r.Delete("/{id}", h.DeleteGroup)
	})

	r.Route("/admin/services", func(r chi.Router) {
		r.Post("/", h.CreateService)
		r.Patch("/{id}", h.UpdateService)
		r.Delete("/{id}", h.DeleteService)
	})

	r.Route("/incidents", func(r chi.Router) {
		r.Post("/", h.CreateIncident)
		r.Post("/draft", h.DraftInitialReport)
		r.Post("/{id}/updates", h.AddIncidentUpdate)
		r.Post("/{id}/updates/draft", h.DraftFollowUp)
	})

	r.Route("/admin/subscribers", func(r chi.Router) {
		r.Get("/", h.ListSubscribers)
		r.Post("/import", h.ImportSubscribers)
		r.Get("/export", h.ExportSubscribers)
		r.Delete("/{id}", h.DeleteSubscriber)
	})

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.GetSettings)
		r.Patch("/app", h.UpdateAppSettings)
		r.Post("/app/restore", h.RestoreDefaultAppSettings)
		r.Put("/theme", h.SetTheme)
		r.Put("/smtp", h.UpdateSMTPSettings)
		r.Post("/smtp/test", h.TestSMTPConnection)
	})
}

// RegisterAdminRoutes registers routes that require the super_admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Use(h.requirePasswordCurrent)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Delete("/{id}", h.DeleteUser)
		r.Post("/{id}/force-password-reset", h.ForcePasswordReset)
	})

	r.Post("/reset", h.ResetApplication)
}

// requirePasswordCurrent refuses accounts flagged for a password change.
// Such accounts keep access to the session endpoints (logout, me, the
// password-change routes) but nothing beyond them until the password is
// rotated.
func (h *Handler) requirePasswordCurrent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.store.FindUser(httputil.GetUserID(r.Context()))
		if !ok {
			httputil.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if user.NeedsPasswordChange() {
			httputil.Error(w, http.StatusForbidden, "password change required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireCurrentUser resolves the authenticated user from the request
// context against the store.
func (h *Handler) requireCurrentUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	userID := httputil.GetUserID(r.Context())
	user, ok := h.store.FindUser(userID)
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return domain.User{}, false
	}
	return user, true
}
