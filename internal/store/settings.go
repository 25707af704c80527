package store

import (
	"context"

	"github.com/conzex/statuspulse/internal/domain"
	"github.com/conzex/statuspulse/internal/notifications"
)

// AppSettingsPatch is a shallow merge patch for the branding settings.
type AppSettingsPatch struct {
	AppName          *string
	LogoURL          *string
	FaviconURL       *string
	FooterCredit     *string
	ShowVendorCredit *bool
	CompanyName      *string
	CompanyInfoLinks *[]domain.CompanyInfoLink
	FooterMenus      *[]domain.FooterMenu
	ContactDetails   *[]domain.ContactDetail
}

// SetTheme switches the UI color scheme.
func (s *Store) SetTheme(theme domain.Theme) error {
	if !theme.IsValid() {
		return ErrInvalidInput
	}
	return s.mutate("set_theme", func(st *domain.AppState) error {
		st.Theme = theme
		return nil
	})
}

// UpdateSMTPSettings replaces the SMTP settings slice wholesale.
func (s *Store) UpdateSMTPSettings(settings domain.SMTPSettings) {
	_ = s.mutate("update_smtp_settings", func(st *domain.AppState) error {
		st.SMTPSettings = settings
		return nil
	})
}

// UpdateAppSettings merges the patch into the branding settings.
func (s *Store) UpdateAppSettings(patch AppSettingsPatch) {
	_ = s.mutate("update_app_settings", func(st *domain.AppState) error {
		settings := st.AppSettings
		if patch.AppName != nil {
			settings.AppName = *patch.AppName
		}
		if patch.LogoURL != nil {
			settings.LogoURL = *patch.LogoURL
		}
		if patch.FaviconURL != nil {
			settings.FaviconURL = *patch.FaviconURL
		}
		if patch.FooterCredit != nil {
			settings.FooterCredit = *patch.FooterCredit
		}
		if patch.ShowVendorCredit != nil {
			settings.ShowVendorCredit = *patch.ShowVendorCredit
		}
		if patch.CompanyName != nil {
			settings.CompanyName = *patch.CompanyName
		}
		if patch.CompanyInfoLinks != nil {
			settings.CompanyInfoLinks = *patch.CompanyInfoLinks
		}
		if patch.FooterMenus != nil {
			settings.FooterMenus = *patch.FooterMenus
		}
		if patch.ContactDetails != nil {
			settings.ContactDetails = *patch.ContactDetails
		}
		st.AppSettings = settings
		return nil
	})
}

// RestoreDefaultAppSettings resets branding to the hardcoded defaults,
// not to the values entered during setup.
func (s *Store) RestoreDefaultAppSettings() {
	_ = s.mutate("restore_default_app_settings", func(st *domain.AppState) error {
		st.AppSettings = DefaultAppSettings()
		return nil
	})
}

// TestSMTPConnection runs the injected connectivity tester. At most one
// test is in flight at a time; a second call while one is pending reports
// a busy result. The state lock is never held across the test.
func (s *Store) TestSMTPConnection(ctx context.Context, settings domain.SMTPSettings, recipient string) notifications.TestResult {
	if !s.smtpTestBusy.CompareAndSwap(false, true) {
		return notifications.TestResult{Success: false, Message: "A connection test is already in progress."}
	}
	defer s.smtpTestBusy.Store(false)

	return s.tester.Test(ctx, settings, recipient)
}
