package store

import "errors"

// Action errors. Unresolvable ids surface as typed NotFound errors rather
// than silent no-ops so callers can distinguish "nothing happened" from
// "done".
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrPasswordMismatch   = errors.New("current password was incorrect")
	ErrLastSuperAdmin     = errors.New("cannot delete the last super admin")
	ErrGroupNotFound      = errors.New("service group not found")
	ErrServiceNotFound    = errors.New("service not found")
	ErrIncidentNotFound   = errors.New("incident not found")
	ErrSubscriberExists   = errors.New("subscriber already exists")
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrInvalidInput       = errors.New("invalid input")
)
