package notifications

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	htmltemplate "html/template"
	"strings"

	"github.com/conzex/statuspulse/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Status-to-banner-color mapping for incident emails.
var statusColors = map[domain.IncidentStatus]string{
	domain.IncidentStatusInvestigating: "#F97316", // orange
	domain.IncidentStatusIdentified:    "#EAB308", // yellow
	domain.IncidentStatusMonitoring:    "#3B82F6", // blue
	domain.IncidentStatusResolved:      "#10B981", // emerald
}

var titleCaser = cases.Title(language.English)

// Renderer renders incident notification emails from embedded templates.
type Renderer struct {
	tmpl *htmltemplate.Template
}

// NewRenderer loads and parses the email template.
func NewRenderer() (*Renderer, error) {
	content, err := templatesFS.ReadFile("templates/incident_email.tmpl")
	if err != nil {
		return nil, fmt.Errorf("read email template: %w", err)
	}

	tmpl, err := htmltemplate.New("incident_email").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse email template: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

type emailData struct {
	AppName      string
	Title        string
	StatusText   string
	StatusColor  string
	Message      htmltemplate.HTML
	FooterCredit string
}

// Subject builds the notification subject line.
func (r *Renderer) Subject(incident *domain.Incident, settings domain.AppSettings) string {
	return fmt.Sprintf("[%s] %s", settings.AppName, incident.Title)
}

// Render produces the self-contained HTML body for an incident update.
func (r *Renderer) Render(incident *domain.Incident, update *domain.IncidentUpdate, settings domain.AppSettings) (string, error) {
	color, ok := statusColors[update.Status]
	if !ok {
		color = statusColors[domain.IncidentStatusInvestigating]
	}

	data := emailData{
		AppName:      settings.AppName,
		Title:        incident.Title,
		StatusText:   titleCaser.String(string(update.Status)),
		StatusColor:  color,
		Message:      messageHTML(update.Message),
		FooterCredit: settings.FooterCredit,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute email template: %w", err)
	}

	return buf.String(), nil
}

// messageHTML escapes the update message and preserves line breaks.
func messageHTML(message string) htmltemplate.HTML {
	escaped := html.EscapeString(message)
	return htmltemplate.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}
