package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/conzex/statuspulse/internal/domain"
	"github.com/conzex/statuspulse/internal/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSink records every Notify call.
type mockSink struct {
	mu        sync.Mutex
	err       error
	incidents []domain.Incident
	updates   []domain.IncidentUpdate
	audiences [][]domain.Subscriber
}

func (m *mockSink) Notify(_ context.Context, incident *domain.Incident, update *domain.IncidentUpdate, subscribers []domain.Subscriber, _ domain.AppSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incidents = append(m.incidents, *incident)
	m.updates = append(m.updates, *update)
	m.audiences = append(m.audiences, subscribers)
	return m.err
}

func (m *mockSink) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.incidents)
}

// mockTester returns a canned result after an optional delay.
type mockTester struct {
	result notifications.TestResult
	delay  time.Duration
	calls  int
}

func (m *mockTester) Test(ctx context.Context, _ domain.SMTPSettings, _ string) notifications.TestResult {
	m.calls++
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
		}
	}
	return m.result
}

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	return New(opts)
}

func TestNew_InitialState(t *testing.T) {
	s := newTestStore(t, Options{})
	state := s.State()

	require.Len(t, state.Users, 1)
	admin := state.Users[0]
	assert.Equal(t, SeedAdminUsername, admin.Username)
	assert.Equal(t, domain.RoleSuperAdmin, admin.Role)
	assert.True(t, admin.MustChangePassword)
	assert.NotEqual(t, SeedAdminPassword, admin.PasswordHash, "password must be hashed")

	assert.Empty(t, state.ServiceGroups)
	assert.Empty(t, state.Incidents)
	assert.Empty(t, state.Subscribers)
	assert.Nil(t, state.CurrentUser)
	assert.Equal(t, domain.ThemeSystem, state.Theme)
	assert.False(t, state.IsSetupComplete)
	assert.Equal(t, 587, state.SMTPSettings.Port)
	assert.True(t, state.SMTPSettings.Secure)
}

func TestState_SnapshotIsolation(t *testing.T) {
	s := newTestStore(t, Options{})

	before := s.State()

	_, err := s.AddServiceGroup("Network", "")
	require.NoError(t, err)

	// The snapshot taken before the commit must not observe it.
	assert.Empty(t, before.ServiceGroups)
	assert.Len(t, s.State().ServiceGroups, 1)
}

func TestSubscribe_NotifiedAfterCommit(t *testing.T) {
	s := newTestStore(t, Options{})

	var observed []int
	unsubscribe := s.Subscribe(func() {
		observed = append(observed, len(s.State().ServiceGroups))
	})

	_, err := s.AddServiceGroup("One", "")
	require.NoError(t, err)
	_, err = s.AddServiceGroup("Two", "")
	require.NoError(t, err)

	// The listener sees each commit's result, in commit order.
	assert.Equal(t, []int{1, 2}, observed)

	unsubscribe()
	_, err = s.AddServiceGroup("Three", "")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, observed, "no notifications after unsubscribe")
}

func TestSubscribe_NotNotifiedOnFailedAction(t *testing.T) {
	s := newTestStore(t, Options{})

	notified := 0
	s.Subscribe(func() { notified++ })

	err := s.UpdateServiceGroup("missing", "x", "")
	assert.ErrorIs(t, err, ErrGroupNotFound)
	assert.Zero(t, notified)
}

func TestSubscribe_ListenerMayReenterStore(t *testing.T) {
	s := newTestStore(t, Options{})

	var seen domain.AppState
	s.Subscribe(func() {
		// Listeners run outside the lock, so reads must not deadlock.
		seen = s.State()
	})

	_, err := s.AddServiceGroup("Network", "")
	require.NoError(t, err)
	assert.Len(t, seen.ServiceGroups, 1)
}

func TestLastUpdated_AdvancesOnCommit(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, Options{Now: func() time.Time { return current }})

	current = current.Add(time.Hour)
	_, err := s.AddServiceGroup("Network", "")
	require.NoError(t, err)

	assert.Equal(t, current, s.State().LastUpdated)
}
