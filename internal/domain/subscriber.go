package domain

import "time"

// Subscriber is an email address registered for incident notifications.
// Email uniqueness is enforced case-insensitively by the store.
type Subscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
