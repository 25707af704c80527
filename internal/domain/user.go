package domain

// Role represents a user's permission level.
type Role string

// Roles, from least to most privileged.
const (
	RoleViewer     Role = "viewer"
	RoleManager    Role = "manager"
	RoleSuperAdmin Role = "super_admin"
)

// IsValid checks if the role is valid.
func (r Role) IsValid() bool {
	return r == RoleViewer || r == RoleManager || r == RoleSuperAdmin
}

func (r Role) level() int {
	switch r {
	case RoleSuperAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleViewer:
		return 1
	}
	return 0
}

// HasPermission reports whether the role meets or exceeds required.
func (r Role) HasPermission(required Role) bool {
	return r.level() >= required.level()
}

// User is a console account. PasswordHash is a bcrypt hash; plaintext
// credentials never live in the aggregate.
type User struct {
	ID                  string `json:"id"`
	Username            string `json:"username"`
	Role                Role   `json:"role"`
	PasswordHash        string `json:"-"`
	MustChangePassword  bool   `json:"must_change_password"`
	ForcePasswordChange bool   `json:"force_password_change"`
}

// NeedsPasswordChange reports whether the account is blocked from normal
// navigation until the password is rotated.
func (u *User) NeedsPasswordChange() bool {
	return u.MustChangePassword || u.ForcePasswordChange
}
