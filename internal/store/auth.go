package store

import (
	"strings"

	"github.com/conzex/statuspulse/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// userIndex locates a user by id in the given slice.
func userIndex(users []domain.User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}

// replaceUser returns a new slice with the user at idx swapped out.
func replaceUser(users []domain.User, idx int, u domain.User) []domain.User {
	next := make([]domain.User, len(users))
	copy(next, users)
	next[idx] = u
	return next
}

// Login authenticates by case-sensitive username and password. On success
// the user becomes the current session user; on failure the state is left
// unchanged. There is no lockout or retry limiting.
func (s *Store) Login(username, password string) (domain.User, error) {
	var user domain.User
	err := s.mutate("login", func(st *domain.AppState) error {
		for i := range st.Users {
			if st.Users[i].Username != username {
				continue
			}
			if bcrypt.CompareHashAndPassword([]byte(st.Users[i].PasswordHash), []byte(password)) != nil {
				return ErrInvalidCredentials
			}
			user = st.Users[i]
			current := user
			st.CurrentUser = &current
			return nil
		}
		return ErrInvalidCredentials
	})
	return user, err
}

// Logout clears the current user unconditionally.
func (s *Store) Logout() {
	_ = s.mutate("logout", func(st *domain.AppState) error {
		st.CurrentUser = nil
		return nil
	})
}

// ChangePassword sets a new password without verifying the old one. It
// backs forced resets and the initial setup flow, and clears both
// password-change flags.
func (s *Store) ChangePassword(userID, newPassword string) error {
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.mutate("change_password", func(st *domain.AppState) error {
		idx := userIndex(st.Users, userID)
		if idx < 0 {
			return ErrUserNotFound
		}

		user := st.Users[idx]
		user.PasswordHash = hash
		user.MustChangePassword = false
		user.ForcePasswordChange = false
		st.Users = replaceUser(st.Users, idx, user)

		if st.CurrentUser != nil && st.CurrentUser.ID == userID {
			current := user
			st.CurrentUser = &current
		}
		return nil
	})
}

// ChangeUserPassword is the self-service variant: the old password must
// match before the new one is installed.
func (s *Store) ChangeUserPassword(userID, oldPassword, newPassword string) error {
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.mutate("change_user_password", func(st *domain.AppState) error {
		idx := userIndex(st.Users, userID)
		if idx < 0 {
			return ErrUserNotFound
		}
		if bcrypt.CompareHashAndPassword([]byte(st.Users[idx].PasswordHash), []byte(oldPassword)) != nil {
			return ErrPasswordMismatch
		}

		user := st.Users[idx]
		user.PasswordHash = hash
		user.MustChangePassword = false
		user.ForcePasswordChange = false
		st.Users = replaceUser(st.Users, idx, user)

		if st.CurrentUser != nil && st.CurrentUser.ID == userID {
			current := user
			st.CurrentUser = &current
		}
		return nil
	})
}

// ForcePasswordReset flags the target user; the block takes effect on
// their next authenticated request.
func (s *Store) ForcePasswordReset(userID string) error {
	return s.mutate("force_password_reset", func(st *domain.AppState) error {
		idx := userIndex(st.Users, userID)
		if idx < 0 {
			return ErrUserNotFound
		}
		user := st.Users[idx]
		user.ForcePasswordChange = true
		st.Users = replaceUser(st.Users, idx, user)

		if st.CurrentUser != nil && st.CurrentUser.ID == userID {
			current := user
			st.CurrentUser = &current
		}
		return nil
	})
}

// AddUser creates a console account. Username collisions are rejected
// case-insensitively; new accounts must change their password on first
// login.
func (s *Store) AddUser(username string, role domain.Role, password string) (domain.User, error) {
	if !role.IsValid() {
		return domain.User{}, ErrInvalidInput
	}

	hash, err := hashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:                 newID("user"),
		Username:           username,
		Role:               role,
		PasswordHash:       hash,
		MustChangePassword: true,
	}

	err = s.mutate("add_user", func(st *domain.AppState) error {
		for i := range st.Users {
			if strings.EqualFold(st.Users[i].Username, username) {
				return ErrUsernameTaken
			}
		}
		st.Users = append(append([]domain.User{}, st.Users...), user)
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// DeleteUser removes an account. At least one super_admin must always
// remain.
func (s *Store) DeleteUser(id string) error {
	return s.mutate("delete_user", func(st *domain.AppState) error {
		idx := userIndex(st.Users, id)
		if idx < 0 {
			return ErrUserNotFound
		}

		if st.Users[idx].Role == domain.RoleSuperAdmin {
			admins := 0
			for i := range st.Users {
				if st.Users[i].Role == domain.RoleSuperAdmin {
					admins++
				}
			}
			if admins <= 1 {
				return ErrLastSuperAdmin
			}
		}

		next := make([]domain.User, 0, len(st.Users)-1)
		next = append(next, st.Users[:idx]...)
		next = append(next, st.Users[idx+1:]...)
		st.Users = next

		if st.CurrentUser != nil && st.CurrentUser.ID == id {
			st.CurrentUser = nil
		}
		return nil
	})
}
