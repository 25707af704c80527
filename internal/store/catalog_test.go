package store

import (
	"context"
	"testing"

	"github.com/conzex/statuspulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addGroup(t *testing.T, s *Store, name string) domain.ServiceGroup {
	t.Helper()
	group, err := s.AddServiceGroup(name, "")
	require.NoError(t, err)
	return group
}

func addService(t *testing.T, s *Store, groupID, name string) domain.Service {
	t.Helper()
	svc, err := s.AddService(ServiceInput{
		Name: name,
		Type: domain.ServiceTypeHTTP,
		URL:  "https://example.com",
	}, groupID)
	require.NoError(t, err)
	return svc
}

func TestAddServiceGroup(t *testing.T) {
	s := newTestStore(t, Options{})

	group := addGroup(t, s, "Network")
	assert.NotEmpty(t, group.ID)
	assert.Empty(t, group.Services)

	state := s.State()
	require.Len(t, state.ServiceGroups, 1)
	assert.Equal(t, "Network", state.ServiceGroups[0].Name)
}

func TestUpdateServiceGroup(t *testing.T) {
	s := newTestStore(t, Options{})
	group := addGroup(t, s, "Network")

	require.NoError(t, s.UpdateServiceGroup(group.ID, "Core Network", "backbone"))

	got, ok := s.FindGroup(group.ID)
	require.True(t, ok)
	assert.Equal(t, "Core Network", got.Name)
	assert.Equal(t, "backbone", got.Description)

	assert.ErrorIs(t, s.UpdateServiceGroup("group_missing", "x", ""), ErrGroupNotFound)
}

func TestDeleteServiceGroup_CascadesToServices(t *testing.T) {
	s := newTestStore(t, Options{})
	group := addGroup(t, s, "Network")
	svc := addService(t, s, group.ID, "API")

	require.NoError(t, s.DeleteServiceGroup(group.ID))

	assert.Empty(t, s.State().ServiceGroups)
	_, ok := s.FindService(svc.ID)
	assert.False(t, ok, "services die with their group")

	assert.ErrorIs(t, s.DeleteServiceGroup(group.ID), ErrGroupNotFound)
}

func TestAddService_FreshHistory(t *testing.T) {
	s := newTestStore(t, Options{})
	group := addGroup(t, s, "Network")

	svc := addService(t, s, group.ID, "API")

	assert.Equal(t, domain.ServiceStatusOperational, svc.Status)
	require.Len(t, svc.UptimeHistory, domain.MaxHistoryPoints)
	for _, p := range svc.UptimeHistory {
		assert.Equal(t, domain.ServiceStatusOperational, p.Status)
	}
	// Oldest first.
	assert.True(t, svc.UptimeHistory[0].Timestamp.Before(svc.UptimeHistory[domain.MaxHistoryPoints-1].Timestamp))
}

func TestAddService_UnknownGroup(t *testing.T) {
	s := newTestStore(t, Options{})

	_, err := s.AddService(ServiceInput{Name: "API", Type: domain.ServiceTypeHTTP}, "group_missing")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestAddService_UnknownType(t *testing.T) {
	s := newTestStore(t, Options{})
	group := addGroup(t, s, "Network")

	_, err := s.AddService(ServiceInput{Name: "API", Type: domain.ServiceType("CARRIER_PIGEON")}, group.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateService_MergePatch(t *testing.T) {
	s := newTestStore(t, Options{})
	group := addGroup(t, s, "Network")
	svc := addService(t, s, group.ID, "API")

	name := "Public API"
	status := domain.ServiceStatusDegraded
	latency := 250
	updated, err := s.UpdateService(svc.ID, ServicePatch{
		Name:             &name,
		Status:           &status,
		CurrentLatencyMs: &latency,
	})
	require.NoError(t, err)

	assert.Equal(t, "Public API", updated.Name)
	assert.Equal(t, domain.ServiceStatusDegraded, updated.Status)
	assert.Equal(t, 250, updated.CurrentLatencyMs)
	// Untouched fields survive the patch.
	assert.Equal(t, "https://example.com", updated.URL)
	assert.Equal(t, domain.ServiceTypeHTTP, updated.Type)
}

func TestUpdateService_Unknown(t *testing.T) {
	s := newTestStore(t, Options{})

	_, err := s.UpdateService("svc_missing", ServicePatch{})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestDeleteService(t *testing.T) {
	s := newTestStore(t, Options{})
	group := addGroup(t, s, "Network")
	svc := addService(t, s, group.ID, "API")
	keep := addService(t, s, group.ID, "DNS")

	require.NoError(t, s.DeleteService(svc.ID))

	got, ok := s.FindGroup(group.ID)
	require.True(t, ok)
	require.Len(t, got.Services, 1)
	assert.Equal(t, keep.ID, got.Services[0].ID)

	assert.ErrorIs(t, s.DeleteService(svc.ID), ErrServiceNotFound)
}

func TestDeleteService_IncidentReferencesBecomeMisses(t *testing.T) {
	s := newTestStore(t, Options{})
	group := addGroup(t, s, "Network")
	svc := addService(t, s, group.ID, "API")

	incident, err := s.AddIncident(context.Background(), IncidentInput{
		Title:              "API down",
		Priority:           domain.IncidentPriorityHigh,
		AffectedServiceIDs: []string{svc.ID},
		InitialStatus:      domain.IncidentStatusInvestigating,
		InitialMessage:     "Looking into it.",
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteService(svc.ID))

	got, ok := s.FindIncident(incident.ID)
	require.True(t, ok)
	// The weak reference stays; resolving it is simply a miss now.
	assert.Equal(t, []string{svc.ID}, got.AffectedServiceIDs)
	_, ok = s.FindService(svc.ID)
	assert.False(t, ok)
}
