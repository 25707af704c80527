package store

import (
	"math/rand"
	"time"

	"github.com/conzex/statuspulse/internal/domain"
)

// Demo data seeded by the setup wizard's demo profiles. Histories are
// generated from day-count patterns covering the full 90-day window.

type historyPattern struct {
	status domain.ServiceStatus
	days   int
}

// latencyFor returns a plausible latency sample for a status.
func latencyFor(status domain.ServiceStatus) int {
	switch status {
	case domain.ServiceStatusOperational:
		return rand.Intn(40) + 10
	case domain.ServiceStatusDegraded:
		return rand.Intn(150) + 100
	case domain.ServiceStatusPartialOutage:
		return rand.Intn(400) + 300
	case domain.ServiceStatusMajorOutage:
		return 999
	default:
		return 0
	}
}

// buildHistory expands a pattern into MaxHistoryPoints daily samples,
// oldest first. Days beyond the pattern are operational.
func buildHistory(now time.Time, pattern []historyPattern) []domain.UptimePoint {
	flat := make([]domain.ServiceStatus, 0, domain.MaxHistoryPoints)
	for _, p := range pattern {
		for i := 0; i < p.days; i++ {
			flat = append(flat, p.status)
		}
	}

	start := now.AddDate(0, 0, -(domain.MaxHistoryPoints - 1))
	history := make([]domain.UptimePoint, 0, domain.MaxHistoryPoints)
	for i := 0; i < domain.MaxHistoryPoints; i++ {
		status := domain.ServiceStatusOperational
		if i < len(flat) {
			status = flat[i]
		}
		history = append(history, domain.UptimePoint{
			Timestamp: start.AddDate(0, 0, i),
			Status:    status,
			LatencyMs: latencyFor(status),
		})
	}
	return history
}

// newSeededService derives status and latency from the newest history point.
func newSeededService(id, name string, typ domain.ServiceType, history []domain.UptimePoint, now time.Time, mutators ...func(*domain.Service)) domain.Service {
	svc := domain.Service{
		ID:                     id,
		Name:                   name,
		Type:                   typ,
		Status:                 domain.ServiceStatusOperational,
		UptimeHistory:          history,
		CurrentLatencyMs:       20,
		LastCheck:              now,
		PubliclyDisplayDetails: true,
	}
	if len(history) > 0 {
		latest := history[len(history)-1]
		svc.Status = latest.Status
		svc.CurrentLatencyMs = latest.LatencyMs
	}
	for _, m := range mutators {
		m(&svc)
	}
	return svc
}

func intPtr(v int) *int { return &v }

// demoData returns the demo service groups and incidents.
func demoData(now time.Time) ([]domain.ServiceGroup, []domain.Incident) {
	groups := []domain.ServiceGroup{
		{
			ID:          "group-1",
			Name:        "Production Grid (Data Center)",
			Description: "Core services for customer-facing applications and IT infrastructure.",
			Services: []domain.Service{
				newSeededService("1", "PVE_PRD", domain.ServiceTypeHTTPS, buildHistory(now, []historyPattern{
					{domain.ServiceStatusOperational, 65}, {domain.ServiceStatusDegraded, 3},
					{domain.ServiceStatusOperational, 10}, {domain.ServiceStatusDegraded, 2},
					{domain.ServiceStatusMajorOutage, 2}, {domain.ServiceStatusDegraded, 3},
					{domain.ServiceStatusOperational, 5},
				}), now, func(s *domain.Service) {
					s.URL = "pve-prod.conzex.com:443"
					s.Description = "Primary production hypervisor cluster."
					s.SSLExpiryDays = intPtr(25)
				}),
				newSeededService("2", "PVE_WHM", domain.ServiceTypeHTTPS, buildHistory(now, []historyPattern{
					{domain.ServiceStatusOperational, 50}, {domain.ServiceStatusMaintenance, 1},
					{domain.ServiceStatusOperational, 20}, {domain.ServiceStatusMaintenance, 1},
					{domain.ServiceStatusOperational, 18},
				}), now, func(s *domain.Service) {
					s.URL = "pve-whm.conzex.com"
					s.Description = "Web hosting management panel."
					s.SSLExpiryDays = intPtr(120)
				}),
				newSeededService("3", "VPN_Server", domain.ServiceTypeTCP, buildHistory(now, []historyPattern{
					{domain.ServiceStatusOperational, 88}, {domain.ServiceStatusDegraded, 2},
				}), now, func(s *domain.Service) {
					s.URL = "vpn.conzex.com"
					s.Port = 1194
					s.Description = "Corporate VPN access gateway."
				}),
			},
		},
		{
			ID:          "group-2",
			Name:        "Cloud Services",
			Description: "Third-party and cloud-native services.",
			Services: []domain.Service{
				newSeededService("4", "Cloud SQL Database", domain.ServiceTypeDatabase, buildHistory(now, []historyPattern{
					{domain.ServiceStatusOperational, 90},
				}), now, func(s *domain.Service) {
					s.URL = "db-us-central1.cloud.conzex"
					s.Port = 3306
					s.PubliclyDisplayDetails = false
				}),
				newSeededService("5", "Docker Registry", domain.ServiceTypeDocker, buildHistory(now, []historyPattern{
					{domain.ServiceStatusOperational, 90},
				}), now, func(s *domain.Service) {
					s.URL = "registry.conzex.io"
					s.Description = "Private container image registry."
				}),
			},
		},
	}

	incidents := []domain.Incident{
		{
			ID:                 "inc-1",
			Title:              "API Latency Issues",
			CreatedAt:          now.AddDate(0, 0, -3),
			Priority:           domain.IncidentPriorityHigh,
			AffectedServiceIDs: []string{"1"},
			Updates: []domain.IncidentUpdate{
				{ID: "upd-1-4", Status: domain.IncidentStatusResolved, Message: "The issue has been fully resolved. All systems are operating normally. We apologize for any inconvenience caused.", CreatedAt: now.Add(-12 * time.Hour)},
				{ID: "upd-1-3", Status: domain.IncidentStatusMonitoring, Message: "A fix has been deployed and we are monitoring the results. API latency appears to be returning to normal levels.", CreatedAt: now.Add(-24 * time.Hour)},
				{ID: "upd-1-2", Status: domain.IncidentStatusIdentified, Message: "We have identified a database query that is causing a bottleneck. Our team is working on optimizing the query.", CreatedAt: now.Add(-36 * time.Hour)},
				{ID: "upd-1-1", Status: domain.IncidentStatusInvestigating, Message: "We are investigating reports of increased latency on our primary production cluster. We will provide more details shortly.", CreatedAt: now.Add(-48 * time.Hour)},
			},
		},
	}

	return groups, incidents
}
