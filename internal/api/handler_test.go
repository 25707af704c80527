package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/conzex/statuspulse/internal/domain"
	"github.com/conzex/statuspulse/internal/notifications"
	"github.com/conzex/statuspulse/internal/pkg/httputil"
	"github.com/conzex/statuspulse/internal/reports"
	"github.com/conzex/statuspulse/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	router http.Handler
	store  *store.Store
	auth   *Authenticator
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	st := store.New(store.Options{
		Tester: notifications.NewSimulatedTester(0),
	})
	auth := NewAuthenticator(AuthConfig{
		SecretKey:           "test-secret",
		AccessTokenDuration: time.Hour,
	}, st)
	handler := NewHandler(st, reports.NewTemplateGenerator(), auth)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		handler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(httputil.AuthMiddleware(auth))
			handler.RegisterProtectedRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(httputil.RequireRole(domain.RoleManager))
				handler.RegisterManagerRoutes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(httputil.RequireRole(domain.RoleSuperAdmin))
				handler.RegisterAdminRoutes(r)
			})
		})
	})

	return &testAPI{router: r, store: st, auth: auth}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// adminToken logs in the seed admin and completes the forced password
// change so the token is usable beyond the session endpoints.
func (a *testAPI) adminToken(t *testing.T) string {
	t.Helper()
	user, err := a.store.Login(store.SeedAdminUsername, store.SeedAdminPassword)
	require.NoError(t, err)
	require.NoError(t, a.store.ChangePassword(user.ID, "rotated-password"))
	token, err := a.auth.IssueToken(user)
	require.NoError(t, err)
	return token
}

func TestLoginEndpoint(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": store.SeedAdminUsername,
		"password": store.SeedAdminPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, store.SeedAdminUsername, resp.Data.User.Username)
	assert.True(t, resp.Data.User.MustChangePassword)
	assert.NotContains(t, rec.Body.String(), "password_hash")
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": store.SeedAdminUsername,
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatusEndpoint_Public(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/v1/status", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data StatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Data.IsSetupComplete)
	assert.Equal(t, "StatusPulse", resp.Data.AppSettings.AppName)
}

func TestAdminRoutes_RequireAuth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/groups", "", map[string]string{"name": "Network"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutes_RequireRole(t *testing.T) {
	api := newTestAPI(t)

	viewer, err := api.store.AddUser("viewer", domain.RoleViewer, "pw")
	require.NoError(t, err)
	token, err := api.auth.IssueToken(viewer)
	require.NoError(t, err)

	rec := api.do(t, http.MethodPost, "/api/v1/groups", token, map[string]string{"name": "Network"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Viewer also cannot reach super_admin routes.
	rec = api.do(t, http.MethodGet, "/api/v1/users", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTokenInvalidAfterUserDeleted(t *testing.T) {
	api := newTestAPI(t)
	admin := api.adminToken(t)

	viewer, err := api.store.AddUser("viewer", domain.RoleViewer, "pw")
	require.NoError(t, err)
	token, err := api.auth.IssueToken(viewer)
	require.NoError(t, err)

	rec := api.do(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/v1/users/"+viewer.ID, admin, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPendingPasswordChangeBlocksManagementRoutes(t *testing.T) {
	api := newTestAPI(t)

	// The seed admin starts with a mandatory password change.
	user, err := api.store.Login(store.SeedAdminUsername, store.SeedAdminPassword)
	require.NoError(t, err)
	require.True(t, user.MustChangePassword)
	token, err := api.auth.IssueToken(user)
	require.NoError(t, err)

	rec := api.do(t, http.MethodPost, "/api/v1/groups", token, map[string]string{"name": "Network"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "password change required")

	rec = api.do(t, http.MethodGet, "/api/v1/users", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The session endpoints stay open so the account can recover.
	rec = api.do(t, http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/auth/password", token, map[string]string{
		"new_password": "rotated-password",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/groups", token, map[string]string{"name": "Network"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestForcePasswordResetRevokesManagementAccess(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)

	rec := api.do(t, http.MethodPost, "/api/v1/groups", token, map[string]string{"name": "Network"})
	require.Equal(t, http.StatusCreated, rec.Code)

	user, err := api.store.Login(store.SeedAdminUsername, "rotated-password")
	require.NoError(t, err)
	require.NoError(t, api.store.ForcePasswordReset(user.ID))

	rec = api.do(t, http.MethodPost, "/api/v1/groups", token, map[string]string{"name": "Storage"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthMiddleware_RejectsBadTokens(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/v1/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A token signed with a different secret must not validate.
	other := NewAuthenticator(AuthConfig{
		SecretKey:           "another-secret",
		AccessTokenDuration: time.Hour,
	}, api.store)
	user, err := api.store.Login(store.SeedAdminUsername, store.SeedAdminPassword)
	require.NoError(t, err)
	forged, err := other.IssueToken(user)
	require.NoError(t, err)

	rec = api.do(t, http.MethodGet, "/api/v1/me", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGroupAndServiceCRUD(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)

	rec := api.do(t, http.MethodPost, "/api/v1/groups", token, map[string]string{
		"name":        "Network",
		"description": "backbone",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var groupResp struct {
		Data domain.ServiceGroup `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groupResp))
	groupID := groupResp.Data.ID

	rec = api.do(t, http.MethodPost, "/api/v1/admin/services", token, map[string]any{
		"group_id": groupID,
		"name":     "API",
		"type":     "HTTP",
		"url":      "https://api.example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var svcResp struct {
		Data domain.Service `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &svcResp))
	assert.Equal(t, domain.ServiceStatusOperational, svcResp.Data.Status)

	rec = api.do(t, http.MethodPatch, "/api/v1/admin/services/"+svcResp.Data.ID, token, map[string]any{
		"status": "degraded",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	svc, ok := api.store.FindService(svcResp.Data.ID)
	require.True(t, ok)
	assert.Equal(t, domain.ServiceStatusDegraded, svc.Status)

	rec = api.do(t, http.MethodDelete, "/api/v1/groups/"+groupID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/v1/groups/"+groupID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateService_UnknownGroup(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)

	rec := api.do(t, http.MethodPost, "/api/v1/admin/services", token, map[string]any{
		"group_id": "group_missing",
		"name":     "API",
		"type":     "HTTP",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIncidentFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)

	rec := api.do(t, http.MethodPost, "/api/v1/incidents", token, map[string]any{
		"title":           "API outage",
		"priority":        "high",
		"initial_status":  "investigating",
		"initial_message": "We are investigating.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var incResp struct {
		Data domain.Incident `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &incResp))

	rec = api.do(t, http.MethodPost, "/api/v1/incidents/"+incResp.Data.ID+"/updates", token, map[string]any{
		"status":  "resolved",
		"message": "Fixed.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	incident, ok := api.store.FindIncident(incResp.Data.ID)
	require.True(t, ok)
	assert.True(t, incident.IsResolved())
}

func TestIncidentValidation(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)

	rec := api.do(t, http.MethodPost, "/api/v1/incidents", token, map[string]any{
		"title":           "API outage",
		"priority":        "urgent",
		"initial_status":  "investigating",
		"initial_message": "m",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDraftEndpoints(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)

	rec := api.do(t, http.MethodPost, "/api/v1/incidents/draft", token, map[string]any{
		"service_name":  "Public API",
		"issue_details": "Elevated error rates",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Public API")

	rec = api.do(t, http.MethodPost, "/api/v1/incidents/inc_missing/updates/draft", token, map[string]any{
		"status": "resolved",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubscribeEndpoint(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/subscribers", "", map[string]string{"email": "ops@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/subscribers", "", map[string]string{"email": "OPS@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/subscribers", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubscriberImportExport(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)

	rec := api.do(t, http.MethodPost, "/api/v1/admin/subscribers/import", token, map[string]string{
		"data": "a@example.com\nb@example.com, a@example.com\nbogus",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data store.ImportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Imported)
	assert.Equal(t, 1, resp.Data.Duplicates)
	assert.Equal(t, 1, resp.Data.Invalid)

	rec = api.do(t, http.MethodGet, "/api/v1/admin/subscribers/export", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@example.com\nb@example.com", rec.Body.String())
}

func TestSetupEndpoint(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/setup", "", map[string]any{
		"profile":     "demo",
		"subscribers": []string{"ops@example.com"},
		"theme":       "dark",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, api.store.State().IsSetupComplete)

	// Setup is a one-shot door.
	rec = api.do(t, http.MethodPost, "/api/v1/setup", "", map[string]any{"profile": "demo"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestResetEndpoint_SuperAdminOnly(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)

	require.NoError(t, api.store.InitializeEnvironment(store.SetupConfig{Profile: store.ProfileDemo}))

	rec := api.do(t, http.MethodPost, "/api/v1/reset", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, api.store.State().IsSetupComplete)
}

func TestSMTPTestEndpoint(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)

	rec := api.do(t, http.MethodPost, "/api/v1/settings/smtp/test", token, map[string]any{
		"host":      "smtp.example.com",
		"port":      587,
		"user":      "mailer",
		"pass":      "fail",
		"recipient": "ops@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authentication failed")
}
