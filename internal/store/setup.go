package store

import (
	"fmt"

	"github.com/conzex/statuspulse/internal/domain"
)

// Setup profiles. Demo profiles seed example groups and incidents; any
// other profile starts empty.
const (
	ProfileDemo        = "demo"
	ProfileDevWithData = "dev-with-data"
	ProfileClean       = "clean"
)

// SetupConfig is the payload of the one-time setup wizard.
type SetupConfig struct {
	Profile     string
	SMTP        domain.SMTPSettings
	Subscribers []string
	Theme       domain.Theme
}

// InitializeEnvironment is the terminal transition out of the setup
// state: it seeds data per profile, installs SMTP settings, registers the
// initial subscribers, persists the setup flag and auto-logs-in the
// seeded admin with the password-change requirement cleared.
func (s *Store) InitializeEnvironment(cfg SetupConfig) error {
	if cfg.Theme != "" && !cfg.Theme.IsValid() {
		return ErrInvalidInput
	}

	if err := s.flag.Set(); err != nil {
		return fmt.Errorf("persist setup flag: %w", err)
	}

	return s.mutate("initialize_environment", func(st *domain.AppState) error {
		var groups []domain.ServiceGroup
		var incidents []domain.Incident
		if cfg.Profile == ProfileDemo || cfg.Profile == ProfileDevWithData {
			groups, incidents = demoData(s.now())
		}

		admin := st.Users[0]
		admin.MustChangePassword = false

		subscribers := make([]domain.Subscriber, 0, len(cfg.Subscribers))
		now := s.now()
		for _, email := range cfg.Subscribers {
			subscribers = append(subscribers, domain.Subscriber{
				ID:        newID("sub"),
				Email:     email,
				CreatedAt: now,
			})
		}

		theme := cfg.Theme
		if theme == "" {
			theme = domain.ThemeSystem
		}

		current := admin
		st.ServiceGroups = groups
		st.Incidents = incidents
		st.SMTPSettings = cfg.SMTP
		st.Subscribers = subscribers
		st.Theme = theme
		st.Users = []domain.User{admin}
		st.IsSetupComplete = true
		st.CurrentUser = &current
		return nil
	})
}

// ResetApplication destroys the aggregate, clears the persisted setup
// flag and reinitializes to the pre-setup default from any state.
func (s *Store) ResetApplication() error {
	if err := s.flag.Clear(); err != nil {
		return fmt.Errorf("clear setup flag: %w", err)
	}

	return s.mutate("reset_application", func(st *domain.AppState) error {
		*st = s.initialState()
		return nil
	})
}
