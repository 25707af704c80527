package domain

// Theme selects the UI color scheme.
type Theme string

// Themes.
const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// IsValid checks if the theme is valid.
func (t Theme) IsValid() bool {
	return t == ThemeSystem || t == ThemeLight || t == ThemeDark
}

// SMTPSettings holds the outbound mail configuration managed from the
// admin console. Port may be zero when unset.
type SMTPSettings struct {
	Host   string `json:"host"`
	Port   int    `json:"port"`
	User   string `json:"user"`
	Pass   string `json:"pass"`
	Secure bool   `json:"secure"`
}

// FooterLink points at a static page of the status site.
type FooterLink struct {
	Label string `json:"label"`
	Page  string `json:"page"`
}

// FooterMenu is a titled column of footer links.
type FooterMenu struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Icon  string       `json:"icon"`
	Links []FooterLink `json:"links"`
}

// ContactDetail is one support channel shown on the contact page.
// Enabled toggles public visibility per entry.
type ContactDetail struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Value       string `json:"value"`
	IconColor   string `json:"icon_color"`
	Enabled     bool   `json:"enabled"`
}

// CompanyInfoLink is an external link shown in the footer branding block.
type CompanyInfoLink struct {
	Label string `json:"label"`
	Link  string `json:"link"`
	Icon  string `json:"icon"`
}

// AppSettings holds branding and layout configuration for the status page.
type AppSettings struct {
	AppName          string            `json:"app_name"`
	LogoURL          string            `json:"logo_url"`
	FaviconURL       string            `json:"favicon_url"`
	FooterCredit     string            `json:"footer_credit"`
	ShowVendorCredit bool              `json:"show_vendor_credit"`
	CompanyName      string            `json:"company_name"`
	CompanyInfoLinks []CompanyInfoLink `json:"company_info_links"`
	FooterMenus      []FooterMenu      `json:"footer_menus"`
	ContactDetails   []ContactDetail   `json:"contact_details"`
}
