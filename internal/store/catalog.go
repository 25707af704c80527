package store

import (
	"github.com/conzex/statuspulse/internal/domain"
)

// ServiceInput holds data for creating a service.
type ServiceInput struct {
	Name                   string
	Description            string
	Type                   domain.ServiceType
	URL                    string
	Port                   int
	SSLExpiryDays          *int
	PubliclyDisplayDetails bool
}

// ServicePatch is a shallow merge patch; nil fields are left untouched.
type ServicePatch struct {
	Name                   *string
	Description            *string
	Type                   *domain.ServiceType
	URL                    *string
	Port                   *int
	Status                 *domain.ServiceStatus
	CurrentLatencyMs       *int
	SSLExpiryDays          *int
	PubliclyDisplayDetails *bool
}

func groupIndex(groups []domain.ServiceGroup, id string) int {
	for i := range groups {
		if groups[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneGroups(groups []domain.ServiceGroup) []domain.ServiceGroup {
	next := make([]domain.ServiceGroup, len(groups))
	copy(next, groups)
	return next
}

// AddServiceGroup creates an empty group.
func (s *Store) AddServiceGroup(name, description string) (domain.ServiceGroup, error) {
	group := domain.ServiceGroup{
		ID:          newID("group"),
		Name:        name,
		Description: description,
		Services:    []domain.Service{},
	}

	err := s.mutate("add_service_group", func(st *domain.AppState) error {
		st.ServiceGroups = append(cloneGroups(st.ServiceGroups), group)
		return nil
	})
	if err != nil {
		return domain.ServiceGroup{}, err
	}
	return group, nil
}

// UpdateServiceGroup renames a group and its description.
func (s *Store) UpdateServiceGroup(id, name, description string) error {
	return s.mutate("update_service_group", func(st *domain.AppState) error {
		idx := groupIndex(st.ServiceGroups, id)
		if idx < 0 {
			return ErrGroupNotFound
		}
		next := cloneGroups(st.ServiceGroups)
		next[idx].Name = name
		next[idx].Description = description
		st.ServiceGroups = next
		return nil
	})
}

// DeleteServiceGroup removes a group and cascades to every service it
// contains. Incidents referencing those services keep their ids as weak
// references.
func (s *Store) DeleteServiceGroup(id string) error {
	return s.mutate("delete_service_group", func(st *domain.AppState) error {
		idx := groupIndex(st.ServiceGroups, id)
		if idx < 0 {
			return ErrGroupNotFound
		}
		next := make([]domain.ServiceGroup, 0, len(st.ServiceGroups)-1)
		next = append(next, st.ServiceGroups[:idx]...)
		next = append(next, st.ServiceGroups[idx+1:]...)
		st.ServiceGroups = next
		return nil
	})
}

// AddService creates a service inside the given group with a fresh
// all-operational 90-day history; status and latency derive from the
// newest history point.
func (s *Store) AddService(input ServiceInput, groupID string) (domain.Service, error) {
	if !input.Type.IsValid() {
		return domain.Service{}, ErrInvalidInput
	}

	now := s.now()
	history := buildHistory(now, []historyPattern{{domain.ServiceStatusOperational, domain.MaxHistoryPoints}})
	svc := newSeededService(newID("svc"), input.Name, input.Type, history, now, func(sv *domain.Service) {
		sv.Description = input.Description
		sv.URL = input.URL
		sv.Port = input.Port
		sv.SSLExpiryDays = input.SSLExpiryDays
		sv.PubliclyDisplayDetails = input.PubliclyDisplayDetails
	})

	err := s.mutate("add_service", func(st *domain.AppState) error {
		idx := groupIndex(st.ServiceGroups, groupID)
		if idx < 0 {
			return ErrGroupNotFound
		}
		next := cloneGroups(st.ServiceGroups)
		services := make([]domain.Service, len(next[idx].Services))
		copy(services, next[idx].Services)
		next[idx].Services = append(services, svc)
		st.ServiceGroups = next
		return nil
	})
	if err != nil {
		return domain.Service{}, err
	}
	return svc, nil
}

// UpdateService applies a shallow merge patch to the service with the
// given id, wherever it lives.
func (s *Store) UpdateService(id string, patch ServicePatch) (domain.Service, error) {
	var updated domain.Service
	err := s.mutate("update_service", func(st *domain.AppState) error {
		for gi := range st.ServiceGroups {
			for si := range st.ServiceGroups[gi].Services {
				if st.ServiceGroups[gi].Services[si].ID != id {
					continue
				}

				svc := st.ServiceGroups[gi].Services[si]
				applyServicePatch(&svc, patch)

				next := cloneGroups(st.ServiceGroups)
				services := make([]domain.Service, len(next[gi].Services))
				copy(services, next[gi].Services)
				services[si] = svc
				next[gi].Services = services
				st.ServiceGroups = next

				updated = svc
				return nil
			}
		}
		return ErrServiceNotFound
	})
	if err != nil {
		return domain.Service{}, err
	}
	return updated, nil
}

func applyServicePatch(svc *domain.Service, patch ServicePatch) {
	if patch.Name != nil {
		svc.Name = *patch.Name
	}
	if patch.Description != nil {
		svc.Description = *patch.Description
	}
	if patch.Type != nil {
		svc.Type = *patch.Type
	}
	if patch.URL != nil {
		svc.URL = *patch.URL
	}
	if patch.Port != nil {
		svc.Port = *patch.Port
	}
	if patch.Status != nil {
		svc.Status = *patch.Status
	}
	if patch.CurrentLatencyMs != nil {
		svc.CurrentLatencyMs = *patch.CurrentLatencyMs
	}
	if patch.SSLExpiryDays != nil {
		svc.SSLExpiryDays = patch.SSLExpiryDays
	}
	if patch.PubliclyDisplayDetails != nil {
		svc.PubliclyDisplayDetails = *patch.PubliclyDisplayDetails
	}
}

// DeleteService removes the service from whichever group contains it.
// Incident references to the id are left in place and resolved as misses.
func (s *Store) DeleteService(id string) error {
	return s.mutate("delete_service", func(st *domain.AppState) error {
		for gi := range st.ServiceGroups {
			for si := range st.ServiceGroups[gi].Services {
				if st.ServiceGroups[gi].Services[si].ID != id {
					continue
				}

				next := cloneGroups(st.ServiceGroups)
				services := make([]domain.Service, 0, len(next[gi].Services)-1)
				services = append(services, next[gi].Services[:si]...)
				services = append(services, next[gi].Services[si+1:]...)
				next[gi].Services = services
				st.ServiceGroups = next
				return nil
			}
		}
		return ErrServiceNotFound
	})
}
