// Package access holds the role rules of the API as pure functions over the
// requesting principal and, where relevant, the owner of the resource.
package access

import (
	"net/http"

	"github.com/pandenic/media-review-board/internal/models"
)

// Principal is whoever issued the request. The zero value is anonymous.
type Principal struct {
	UserID        int64
	Username      string
	Role          models.Role
	Superuser     bool
	Authenticated bool
}

func FromUser(u models.User) Principal {
	return Principal{
		UserID:        u.ID,
		Username:      u.Username,
		Role:          u.Role,
		Superuser:     u.Superuser,
		Authenticated: true,
	}
}

func (p Principal) IsAdmin() bool {
	return p.Authenticated && (p.Role == models.RoleAdmin || p.Superuser)
}

func (p Principal) IsStaff() bool {
	return p.IsAdmin() || (p.Authenticated && p.Role == models.RoleModerator)
}

func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// CanWriteCatalog reports whether p may create, change or delete
// categories, genres and titles.
func CanWriteCatalog(p Principal) bool { return p.IsAdmin() }

// CanModifyAuthored covers reviews and comments: reads are open, writes
// belong to the author and to staff.
func CanModifyAuthored(p Principal, method string, authorID int64) bool {
	if IsSafeMethod(method) {
		return true
	}
	if !p.Authenticated {
		return false
	}
	return p.UserID == authorID || p.IsStaff()
}

func CanManageUsers(p Principal) bool { return p.IsAdmin() }
