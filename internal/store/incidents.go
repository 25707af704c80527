package store

import (
	"context"

	"github.com/conzex/statuspulse/internal/domain"
)

// IncidentInput holds data for opening an incident. The seed update
// becomes the first (and newest) entry on the timeline.
type IncidentInput struct {
	Title              string
	Priority           domain.IncidentPriority
	AffectedServiceIDs []string
	InitialStatus      domain.IncidentStatus
	InitialMessage     string
}

// AddIncident opens an incident with exactly one seed update, prepends it
// to the incident list and notifies subscribers.
func (s *Store) AddIncident(ctx context.Context, input IncidentInput) (domain.Incident, error) {
	if !input.Priority.IsValid() || !input.InitialStatus.IsValid() {
		return domain.Incident{}, ErrInvalidInput
	}

	now := s.now()
	incident := domain.Incident{
		ID:                 newID("inc"),
		Title:              input.Title,
		CreatedAt:          now,
		Priority:           input.Priority,
		AffectedServiceIDs: input.AffectedServiceIDs,
		Updates: []domain.IncidentUpdate{{
			ID:        newID("upd"),
			Status:    input.InitialStatus,
			Message:   input.InitialMessage,
			CreatedAt: now,
		}},
	}

	err := s.mutate("add_incident", func(st *domain.AppState) error {
		st.Incidents = append([]domain.Incident{incident}, st.Incidents...)
		return nil
	})
	if err != nil {
		return domain.Incident{}, err
	}

	s.notifySubscribers(ctx, incident, incident.Updates[0])
	return incident, nil
}

// AddIncidentUpdate prepends a new update to an incident's timeline
// (strict newest-first ordering) and notifies subscribers. The status is
// free-form: duplicates and reversals are allowed.
func (s *Store) AddIncidentUpdate(ctx context.Context, incidentID string, status domain.IncidentStatus, message string) (domain.IncidentUpdate, error) {
	if !status.IsValid() {
		return domain.IncidentUpdate{}, ErrInvalidInput
	}

	update := domain.IncidentUpdate{
		ID:        newID("upd"),
		Status:    status,
		Message:   message,
		CreatedAt: s.now(),
	}

	var incident domain.Incident
	err := s.mutate("add_incident_update", func(st *domain.AppState) error {
		for i := range st.Incidents {
			if st.Incidents[i].ID != incidentID {
				continue
			}

			next := make([]domain.Incident, len(st.Incidents))
			copy(next, st.Incidents)
			inc := next[i]
			inc.Updates = append([]domain.IncidentUpdate{update}, inc.Updates...)
			next[i] = inc
			st.Incidents = next

			incident = inc
			return nil
		}
		return ErrIncidentNotFound
	})
	if err != nil {
		return domain.IncidentUpdate{}, err
	}

	s.notifySubscribers(ctx, incident, update)
	return update, nil
}

// notifySubscribers hands the incident to the sink after the commit.
// Delivery failures are logged, never surfaced to the mutating action, and
// the store lock is not held across the call.
func (s *Store) notifySubscribers(ctx context.Context, incident domain.Incident, update domain.IncidentUpdate) {
	if s.sink == nil {
		return
	}

	state := s.State()
	if state.SMTPSettings.Host == "" {
		s.logger.Warn("smtp not configured, skipping incident notifications", "incident_id", incident.ID)
		return
	}
	if len(state.Subscribers) == 0 {
		return
	}

	if err := s.sink.Notify(ctx, &incident, &update, state.Subscribers, state.AppSettings); err != nil {
		s.logger.Error("failed to notify subscribers",
			"incident_id", incident.ID,
			"update_id", update.ID,
			"error", err,
		)
	}
}
