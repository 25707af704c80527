package store

import (
	"encoding/base64"

	"github.com/conzex/statuspulse/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const defaultLogoSVG = `<svg width="24" height="24" viewBox="0 0 24 24" fill="none" xmlns="http://www.w3.org/2000/svg"><path d="M4 13H7L10 5L16 19L19 13H22" stroke="white" stroke-width="2.5" stroke-linecap="round" stroke-linejoin="round"/></svg>`

var defaultLogoURL = "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(defaultLogoSVG))

// SeedAdminUsername and SeedAdminPassword are the credentials of the one
// super_admin seeded before setup. The setup flow forces a password change.
const (
	SeedAdminUsername = "admin"
	SeedAdminPassword = "admin"
)

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// initialState builds the pre-setup default aggregate. IsSetupComplete
// reflects the persisted flag, the only value that survives a restart.
func (s *Store) initialState() domain.AppState {
	adminHash, err := hashPassword(SeedAdminPassword)
	if err != nil {
		// bcrypt fails only on an out-of-range cost.
		panic(err)
	}

	return domain.AppState{
		ServiceGroups: []domain.ServiceGroup{},
		Incidents:     []domain.Incident{},
		Users: []domain.User{{
			ID:                 "user-0",
			Username:           SeedAdminUsername,
			Role:               domain.RoleSuperAdmin,
			PasswordHash:       adminHash,
			MustChangePassword: true,
		}},
		Subscribers:     []domain.Subscriber{},
		SMTPSettings:    domain.SMTPSettings{Port: 587, Secure: true},
		AppSettings:     DefaultAppSettings(),
		CurrentUser:     nil,
		LastUpdated:     s.now(),
		Theme:           domain.ThemeSystem,
		IsSetupComplete: s.flag.IsSet(),
	}
}

// DefaultAppSettings returns the hardcoded branding defaults. Restoring
// defaults from the admin console resets to these values, not to whatever
// was entered during setup.
func DefaultAppSettings() domain.AppSettings {
	return domain.AppSettings{
		AppName:          "StatusPulse",
		LogoURL:          defaultLogoURL,
		FaviconURL:       defaultLogoURL,
		FooterCredit:     "Copyright © 2025 Conzex Global Private Limited. All Rights Reserved.",
		ShowVendorCredit: true,
		CompanyName:      "Conzex Global Private Limited",
		CompanyInfoLinks: []domain.CompanyInfoLink{
			{Label: "Website", Link: "https://www.conzex.com", Icon: "Globe"},
			{Label: "Documentation", Link: "https://docs.conzex.com", Icon: "BookOpen"},
		},
		FooterMenus: []domain.FooterMenu{
			{ID: "company", Title: "Company", Icon: "Building", Links: []domain.FooterLink{
				{Label: "About Us", Page: "about"},
				{Label: "Features", Page: "features"},
				{Label: "Why StatusPulse?", Page: "why-statuspulse"},
				{Label: "Privacy Policy", Page: "privacy"},
				{Label: "Terms of Service", Page: "terms"},
			}},
			{ID: "resources", Title: "Resources", Icon: "BookOpen", Links: []domain.FooterLink{
				{Label: "Download", Page: "download"},
				{Label: "Requirements", Page: "requirements"},
				{Label: "FAQ", Page: "faq"},
				{Label: "Disclaimer", Page: "disclaimer"},
			}},
			{ID: "support", Title: "Support", Icon: "LifeBuoy", Links: []domain.FooterLink{
				{Label: "Contact Support", Page: "contact"},
			}},
		},
		ContactDetails: []domain.ContactDetail{
			{ID: "ticket", Icon: "Ticket", Title: "Ticketing System", Description: "For technical support and detailed inquiries.", Link: "https://support.conzex.com", Value: "support.conzex.com", IconColor: "bg-gradient-to-br from-blue-500 to-blue-600", Enabled: true},
			{ID: "docs", Icon: "BookOpen", Title: "Knowledge Base", Description: "Find setup guides, FAQs, and best practices.", Link: "https://docs.conzex.com", Value: "docs.conzex.com", IconColor: "bg-gradient-to-br from-purple-500 to-purple-600", Enabled: true},
			{ID: "email", Icon: "Mail", Title: "Email Support", Description: "For general questions and sales inquiries.", Link: "mailto:support@conzex.com", Value: "support@conzex.com", IconColor: "bg-gradient-to-br from-rose-500 to-rose-600", Enabled: true},
			{ID: "web", Icon: "Globe", Title: "Corporate Website", Description: "Learn more about Conzex Global.", Link: "https://www.conzex.com", Value: "www.conzex.com", IconColor: "bg-gradient-to-br from-slate-700 to-slate-900", Enabled: true},
			{ID: "phone", Icon: "Phone", Title: "Phone Support", Description: "For urgent sales and support inquiries.", Link: "tel:+918007060308", Value: "+91 800 7060 308", IconColor: "bg-gradient-to-br from-emerald-500 to-emerald-600", Enabled: true},
			{ID: "whatsapp", Icon: "MessageSquare", Title: "WhatsApp", Description: "Connect with us for quick chats.", Link: "https://wa.me/918007060308", Value: "+91 800 7060 308", IconColor: "bg-gradient-to-br from-green-500 to-green-600", Enabled: true},
		},
	}
}
