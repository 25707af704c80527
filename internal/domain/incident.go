package domain

import "time"

// IncidentStatus represents the current stage of an incident update.
type IncidentStatus string

// Incident statuses. The expected progression is investigating ->
// identified -> monitoring -> resolved, but transitions are not enforced:
// any status may follow any other, including repeats.
const (
	IncidentStatusInvestigating IncidentStatus = "investigating"
	IncidentStatusIdentified    IncidentStatus = "identified"
	IncidentStatusMonitoring    IncidentStatus = "monitoring"
	IncidentStatusResolved      IncidentStatus = "resolved"
)

// IsValid checks if the incident status is valid.
func (s IncidentStatus) IsValid() bool {
	switch s {
	case IncidentStatusInvestigating, IncidentStatusIdentified,
		IncidentStatusMonitoring, IncidentStatusResolved:
		return true
	}
	return false
}

// IncidentPriority represents the priority level of an incident.
type IncidentPriority string

// Incident priorities.
const (
	IncidentPriorityCritical IncidentPriority = "critical"
	IncidentPriorityHigh     IncidentPriority = "high"
	IncidentPriorityMedium   IncidentPriority = "medium"
	IncidentPriorityLow      IncidentPriority = "low"
)

// IsValid checks if the incident priority is valid.
func (p IncidentPriority) IsValid() bool {
	switch p {
	case IncidentPriorityCritical, IncidentPriorityHigh,
		IncidentPriorityMedium, IncidentPriorityLow:
		return true
	}
	return false
}

// GlobalServiceID is the sentinel used in AffectedServiceIDs when an
// incident affects the whole platform rather than specific services.
const GlobalServiceID = "global"

// Incident is a tracked disruption with a timeline of status updates.
// AffectedServiceIDs are weak references resolved by lookup; they may
// point at services that have since been deleted.
type Incident struct {
	ID                 string           `json:"id"`
	Title              string           `json:"title"`
	CreatedAt          time.Time        `json:"created_at"`
	Priority           IncidentPriority `json:"priority"`
	AffectedServiceIDs []string         `json:"affected_service_ids"`
	Updates            []IncidentUpdate `json:"updates"`
}

// LatestUpdate returns the most recent update, or nil if there is none.
// Updates are ordered newest first.
func (i *Incident) LatestUpdate() *IncidentUpdate {
	if len(i.Updates) == 0 {
		return nil
	}
	return &i.Updates[0]
}

// IsResolved reports whether the most recent update is a resolution.
func (i *Incident) IsResolved() bool {
	u := i.LatestUpdate()
	return u != nil && u.Status == IncidentStatusResolved
}

// IncidentUpdate is one entry in an incident's timeline.
type IncidentUpdate struct {
	ID        string         `json:"id"`
	Status    IncidentStatus `json:"status"`
	Message   string         `json:"message"`
	CreatedAt time.Time      `json:"created_at"`
}
