package store

import "github.com/google/uuid"

// newID generates a prefixed entity id, e.g. "svc_6f1c...".
func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
