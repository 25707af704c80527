// Package reports drafts public-facing incident copy.
package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/conzex/statuspulse/internal/domain"
)

// Fallback strings shown to operators when drafting fails. Generation
// failures never cross the API boundary as errors.
const (
	FallbackInitial  = "Could not generate an incident report. Please write the update manually."
	FallbackFollowUp = "Could not generate an incident update. Please write the update manually."
)

// Generator drafts incident copy for the admin UI. Implementations may
// call an external text-generation service and are allowed to fail;
// callers convert errors to the fallback strings above.
type Generator interface {
	// InitialReport drafts the first public update for a new incident.
	InitialReport(ctx context.Context, serviceName, issueDetails string) (string, error)

	// FollowUp drafts a status-transition update given the incident title,
	// the new status and the prior updates (newest first).
	FollowUp(ctx context.Context, title string, newStatus domain.IncidentStatus, history []domain.IncidentUpdate) (string, error)
}

// TemplateGenerator produces deterministic SRE-toned copy without any
// external dependency. It is the default Generator.
type TemplateGenerator struct{}

// NewTemplateGenerator returns a generator backed by static templates.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// InitialReport acknowledges the issue, states that investigation has
// begun and promises follow-ups without committing to a timeline.
func (g *TemplateGenerator) InitialReport(_ context.Context, serviceName, issueDetails string) (string, error) {
	serviceName = strings.TrimSpace(serviceName)
	if serviceName == "" {
		serviceName = "one of our services"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "We are aware of an issue affecting %s and understand the impact this may have on you.", serviceName)
	if details := strings.TrimSpace(issueDetails); details != "" {
		fmt.Fprintf(&b, " %s", sentence(details))
	}
	b.WriteString("\n\nOur engineering team has begun investigating and is working to restore normal operation." +
		" We will provide further updates here as more information becomes available.")
	return b.String(), nil
}

// FollowUp drafts a transition update keyed by the new status.
func (g *TemplateGenerator) FollowUp(_ context.Context, title string, newStatus domain.IncidentStatus, history []domain.IncidentUpdate) (string, error) {
	if !newStatus.IsValid() {
		return "", fmt.Errorf("unknown incident status %q", newStatus)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = "this incident"
	}

	var body string
	switch newStatus {
	case domain.IncidentStatusIdentified:
		body = fmt.Sprintf("We have identified the root cause of %q and our team is actively working on remediation.", title)
	case domain.IncidentStatusMonitoring:
		body = fmt.Sprintf("A fix for %q has been applied and we are monitoring our systems closely to confirm stability.", title)
	case domain.IncidentStatusResolved:
		body = fmt.Sprintf("The incident %q has been fully resolved and all systems have returned to normal operation."+
			" We apologize for the disruption this caused. A post-mortem will follow once our review is complete.", title)
	default:
		body = fmt.Sprintf("We are continuing to investigate %q and will share findings as soon as we have them.", title)
	}

	if len(history) > 0 {
		body += "\n\nThank you for your patience while we work through this. Further updates will be posted here."
	} else {
		body += "\n\nWe will continue to post updates here as the situation develops."
	}
	return body, nil
}

// sentence ensures a fragment reads as a complete sentence.
func sentence(s string) string {
	if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "!") && !strings.HasSuffix(s, "?") {
		s += "."
	}
	return s
}
