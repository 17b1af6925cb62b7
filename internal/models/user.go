package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// ReservedUsername is routed to the caller's own profile and can never be registered.
const ReservedUsername = "me"

type User struct {
	ID        int64  `json:"-"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      Role   `json:"role"`
	Superuser bool   `json:"-"`

	ConfirmationHash   string     `json:"-"`
	ConfirmationSentAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (u *User) IsAdmin() bool     { return u.Role == RoleAdmin || u.Superuser }
func (u *User) IsModerator() bool { return u.Role == RoleModerator }
func (u *User) IsStaff() bool     { return u.IsAdmin() || u.IsModerator() }

// Normalize trims identity fields and fills the default role.
func (u *User) Normalize() {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
	if u.Role == "" {
		u.Role = RoleUser
	}
}
