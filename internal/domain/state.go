package domain

import "time"

// AppState is the aggregate root owning every collection in the system.
// It has no persistence beyond the setup-complete flag; its lifetime is
// the process lifetime.
type AppState struct {
	ServiceGroups   []ServiceGroup `json:"service_groups"`
	Incidents       []Incident     `json:"incidents"`
	Users           []User         `json:"users"`
	Subscribers     []Subscriber   `json:"subscribers"`
	SMTPSettings    SMTPSettings   `json:"smtp_settings"`
	AppSettings     AppSettings    `json:"app_settings"`
	CurrentUser     *User          `json:"current_user,omitempty"`
	LastUpdated     time.Time      `json:"last_updated"`
	Theme           Theme          `json:"theme"`
	IsSetupComplete bool           `json:"is_setup_complete"`
}
