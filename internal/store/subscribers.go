package store

import (
	"regexp"
	"strings"

	"github.com/conzex/statuspulse/internal/domain"
)

// ImportResult partitions a bulk import: every non-empty entry lands in
// exactly one bucket.
type ImportResult struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}

var importSeparator = regexp.MustCompile(`[\n,]+`)

// AddSubscriber registers a single email. Duplicates are rejected
// case-insensitively, matching the bulk import policy.
func (s *Store) AddSubscriber(email string) (domain.Subscriber, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return domain.Subscriber{}, ErrInvalidInput
	}

	sub := domain.Subscriber{
		ID:        newID("sub"),
		Email:     email,
		CreatedAt: s.now(),
	}

	err := s.mutate("add_subscriber", func(st *domain.AppState) error {
		for i := range st.Subscribers {
			if strings.EqualFold(st.Subscribers[i].Email, email) {
				return ErrSubscriberExists
			}
		}
		st.Subscribers = append(append([]domain.Subscriber{}, st.Subscribers...), sub)
		return nil
	})
	if err != nil {
		return domain.Subscriber{}, err
	}
	return sub, nil
}

// ImportSubscribers parses free text with emails separated by commas
// and/or newlines. Entries without an "@" are invalid; duplicates are
// checked case-insensitively against existing subscribers and against
// earlier entries in the same batch.
func (s *Store) ImportSubscribers(data string) ImportResult {
	var result ImportResult

	_ = s.mutate("import_subscribers", func(st *domain.AppState) error {
		seen := make(map[string]bool, len(st.Subscribers))
		for i := range st.Subscribers {
			seen[strings.ToLower(st.Subscribers[i].Email)] = true
		}

		next := append([]domain.Subscriber{}, st.Subscribers...)
		now := s.now()

		for _, entry := range importSeparator.Split(data, -1) {
			email := strings.ToLower(strings.TrimSpace(entry))
			if email == "" {
				continue
			}
			if !strings.Contains(email, "@") {
				result.Invalid++
				continue
			}
			if seen[email] {
				result.Duplicates++
				continue
			}
			seen[email] = true
			next = append(next, domain.Subscriber{
				ID:        newID("sub"),
				Email:     email,
				CreatedAt: now,
			})
			result.Imported++
		}

		st.Subscribers = next
		return nil
	})

	return result
}

// ExportSubscribers returns the newline-joined plain email list, no
// header row.
func (s *Store) ExportSubscribers() string {
	state := s.State()
	emails := make([]string, len(state.Subscribers))
	for i, sub := range state.Subscribers {
		emails[i] = sub.Email
	}
	return strings.Join(emails, "\n")
}

// DeleteSubscriber removes a subscriber by id.
func (s *Store) DeleteSubscriber(id string) error {
	return s.mutate("delete_subscriber", func(st *domain.AppState) error {
		for i := range st.Subscribers {
			if st.Subscribers[i].ID != id {
				continue
			}
			next := make([]domain.Subscriber, 0, len(st.Subscribers)-1)
			next = append(next, st.Subscribers[:i]...)
			next = append(next, st.Subscribers[i+1:]...)
			st.Subscribers = next
			return nil
		}
		return ErrSubscriberNotFound
	})
}
