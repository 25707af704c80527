package api

import (
	"encoding/json"
	"net/http"

	"github.com/conzex/statuspulse/internal/domain"
	"github.com/conzex/statuspulse/internal/pkg/httputil"
	"github.com/conzex/statuspulse/internal/store"
)

// SettingsResponse bundles everything the admin settings screens edit.
type SettingsResponse struct {
	AppSettings  domain.AppSettings  `json:"app_settings"`
	SMTPSettings domain.SMTPSettings `json:"smtp_settings"`
	Theme        domain.Theme        `json:"theme"`
}

// GetSettings handles GET /settings.
func (h *Handler) GetSettings(w http.ResponseWriter, _ *http.Request) {
	state := h.store.State()
	httputil.Success(w, http.StatusOK, SettingsResponse{
		AppSettings:  state.AppSettings,
		SMTPSettings: state.SMTPSettings,
		Theme:        state.Theme,
	})
}

// UpdateAppSettingsRequest is a merge patch for branding settings.
type UpdateAppSettingsRequest struct {
	AppName          *string                   `json:"app_name" validate:"omitempty,min=1,max=255"`
	LogoURL          *string                   `json:"logo_url"`
	FaviconURL       *string                   `json:"favicon_url"`
	FooterCredit     *string                   `json:"footer_credit"`
	ShowVendorCredit *bool                     `json:"show_vendor_credit"`
	CompanyName      *string                   `json:"company_name"`
	CompanyInfoLinks *[]domain.CompanyInfoLink `json:"company_info_links"`
	FooterMenus      *[]domain.FooterMenu      `json:"footer_menus"`
	ContactDetails   *[]domain.ContactDetail   `json:"contact_details"`
}

// UpdateAppSettings handles PATCH /settings/app.
func (h *Handler) UpdateAppSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateAppSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	h.store.UpdateAppSettings(store.AppSettingsPatch{
		AppName:          req.AppName,
		LogoURL:          req.LogoURL,
		FaviconURL:       req.FaviconURL,
		FooterCredit:     req.FooterCredit,
		ShowVendorCredit: req.ShowVendorCredit,
		CompanyName:      req.CompanyName,
		CompanyInfoLinks: req.CompanyInfoLinks,
		FooterMenus:      req.FooterMenus,
		ContactDetails:   req.ContactDetails,
	})

	httputil.Success(w, http.StatusOK, h.store.State().AppSettings)
}

// RestoreDefaultAppSettings handles POST /settings/app/restore.
func (h *Handler) RestoreDefaultAppSettings(w http.ResponseWriter, _ *http.Request) {
	h.store.RestoreDefaultAppSettings()
	httputil.Success(w, http.StatusOK, h.store.State().AppSettings)
}

// SetThemeRequest represents the theme switch request.
type SetThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=system light dark"`
}

// SetTheme handles PUT /settings/theme.
func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req SetThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	if err := h.store.SetTheme(domain.Theme(req.Theme)); err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: store.ErrInvalidInput, Status: http.StatusBadRequest},
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SMTPSettingsRequest represents the SMTP transport settings body.
type SMTPSettingsRequest struct {
	Host   string `json:"host"`
	Port   int    `json:"port" validate:"min=0,max=65535"`
	User   string `json:"user"`
	Pass   string `json:"pass"`
	Secure bool   `json:"secure"`
}

// UpdateSMTPSettings handles PUT /settings/smtp.
func (h *Handler) UpdateSMTPSettings(w http.ResponseWriter, r *http.Request) {
	var req SMTPSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	h.store.UpdateSMTPSettings(domain.SMTPSettings{
		Host:   req.Host,
		Port:   req.Port,
		User:   req.User,
		Pass:   req.Pass,
		Secure: req.Secure,
	})

	w.WriteHeader(http.StatusNoContent)
}

// TestSMTPRequest represents the connectivity test body. Settings are
// taken from the request, not the stored ones, so unsaved form values
// can be tested.
type TestSMTPRequest struct {
	Host      string `json:"host"`
	Port      int    `json:"port" validate:"min=0,max=65535"`
	User      string `json:"user"`
	Pass      string `json:"pass"`
	Secure    bool   `json:"secure"`
	Recipient string `json:"recipient" validate:"required,email"`
}

// TestSMTPConnection handles POST /settings/smtp/test. The result is
// always 200; success or failure is in the body.
func (h *Handler) TestSMTPConnection(w http.ResponseWriter, r *http.Request) {
	var req TestSMTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	result := h.store.TestSMTPConnection(r.Context(), domain.SMTPSettings{
		Host:   req.Host,
		Port:   req.Port,
		User:   req.User,
		Pass:   req.Pass,
		Secure: req.Secure,
	}, req.Recipient)

	httputil.Success(w, http.StatusOK, result)
}
