// Package notifications renders and delivers incident emails to
// subscribers. Delivery is behind the Sink interface so real transports
// can be substituted without touching incident logic.
package notifications

import (
	"context"
	"log/slog"

	"github.com/conzex/statuspulse/internal/domain"
)

// Sink delivers an incident notification to a set of subscribers.
type Sink interface {
	Notify(ctx context.Context, incident *domain.Incident, update *domain.IncidentUpdate, subscribers []domain.Subscriber, settings domain.AppSettings) error
}

// LogSink renders the notification and logs it instead of transmitting.
// This is the default sink when no SMTP transport is configured.
type LogSink struct {
	renderer *Renderer
	logger   *slog.Logger
}

// NewLogSink creates a log-only sink.
func NewLogSink(renderer *Renderer, logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{renderer: renderer, logger: logger}
}

// Notify logs the rendered notification for every subscriber.
func (s *LogSink) Notify(_ context.Context, incident *domain.Incident, update *domain.IncidentUpdate, subscribers []domain.Subscriber, settings domain.AppSettings) error {
	body, err := s.renderer.Render(incident, update, settings)
	if err != nil {
		recordNotification("log", "failed")
		return err
	}

	recipients := make([]string, len(subscribers))
	for i, sub := range subscribers {
		recipients[i] = sub.Email
	}

	s.logger.Info("simulated incident notification",
		"incident_id", incident.ID,
		"subject", s.renderer.Subject(incident, settings),
		"recipients", len(recipients),
		"body_bytes", len(body),
	)
	recordNotification("log", "sent")
	return nil
}
