// Package store owns the application aggregate and the actions that
// mutate it. A Store is an explicitly constructed instance; dependencies
// (setup flag, notification sink, SMTP tester) are injected so several
// independent instances can coexist in tests.
package store

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/conzex/statuspulse/internal/domain"
	"github.com/conzex/statuspulse/internal/notifications"
	"github.com/conzex/statuspulse/internal/pkg/metrics"
	"github.com/conzex/statuspulse/internal/setupflag"
)

// Options configures a Store. Zero-value fields fall back to an in-memory
// setup flag, no notification sink, a simulated SMTP tester, the default
// logger and the wall clock.
type Options struct {
	Flag   setupflag.Flag
	Sink   notifications.Sink
	Tester notifications.Tester
	Logger *slog.Logger
	Now    func() time.Time
}

// Store is the single in-memory state container. One mutex guards the
// aggregate; every action is atomic from an observer's point of view and
// listeners never see a partially applied transition.
type Store struct {
	mu        sync.Mutex
	state     domain.AppState
	listeners map[int]func()
	nextSub   int

	flag   setupflag.Flag
	sink   notifications.Sink
	tester notifications.Tester
	logger *slog.Logger
	now    func() time.Time

	smtpTestBusy atomic.Bool
}

// New creates a store seeded with the pre-setup default state.
func New(opts Options) *Store {
	if opts.Flag == nil {
		opts.Flag = setupflag.NewMemory()
	}
	if opts.Tester == nil {
		opts.Tester = notifications.NewSimulatedTester(1500 * time.Millisecond)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		listeners: make(map[int]func()),
		flag:      opts.Flag,
		sink:      opts.Sink,
		tester:    opts.Tester,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	s.state = s.initialState()
	return s
}

// State returns the current snapshot. Callers must treat it as read-only:
// actions replace slices they touch rather than mutating them in place, so
// a held snapshot stays internally consistent across later commits.
func (s *Store) State() domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener invoked after every committed transition.
// The returned function removes the listener.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// mutate applies fn to a working copy of the state and commits the result
// if fn returns nil. Listeners run after the lock is released so they can
// read back through the store.
func (s *Store) mutate(action string, fn func(st *domain.AppState) error) error {
	s.mu.Lock()
	next := s.state
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	next.LastUpdated = s.now()
	s.state = next
	listeners := make([]func(), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	metrics.RecordStoreTransition(action)
	for _, l := range listeners {
		l()
	}
	return nil
}

// AllServices flattens every group into a single collection. The
// projection is recomputed on each call.
func (s *Store) AllServices() []domain.Service {
	state := s.State()
	var services []domain.Service
	for _, g := range state.ServiceGroups {
		services = append(services, g.Services...)
	}
	return services
}

// FindService returns the service with the given id, or false.
func (s *Store) FindService(id string) (domain.Service, bool) {
	for _, svc := range s.AllServices() {
		if svc.ID == id {
			return svc, true
		}
	}
	return domain.Service{}, false
}

// FindGroup returns the group with the given id, or false.
func (s *Store) FindGroup(id string) (domain.ServiceGroup, bool) {
	state := s.State()
	for _, g := range state.ServiceGroups {
		if g.ID == id {
			return g, true
		}
	}
	return domain.ServiceGroup{}, false
}

// FindIncident returns the incident with the given id, or false.
func (s *Store) FindIncident(id string) (domain.Incident, bool) {
	state := s.State()
	for _, inc := range state.Incidents {
		if inc.ID == id {
			return inc, true
		}
	}
	return domain.Incident{}, false
}

// FindUser returns the user with the given id, or false.
func (s *Store) FindUser(id string) (domain.User, bool) {
	state := s.State()
	for _, u := range state.Users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}
