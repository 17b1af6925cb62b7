package access

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pandenic/media-review-board/internal/models"
)

var (
	anon      = Principal{}
	user      = Principal{UserID: 1, Role: models.RoleUser, Authenticated: true}
	moderator = Principal{UserID: 2, Role: models.RoleModerator, Authenticated: true}
	admin     = Principal{UserID: 3, Role: models.RoleAdmin, Authenticated: true}
	superuser = Principal{UserID: 4, Role: models.RoleUser, Superuser: true, Authenticated: true}
)

func TestCanWriteCatalog(t *testing.T) {
	tests := []struct {
		name string
		p    Principal
		want bool
	}{
		{"anonymous", anon, false},
		{"user", user, false},
		{"moderator", moderator, false},
		{"admin", admin, true},
		{"superuser", superuser, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanWriteCatalog(tt.p))
		})
	}
}

func TestCanModifyAuthored(t *testing.T) {
	const authorID = 1
	tests := []struct {
		name   string
		p      Principal
		method string
		want   bool
	}{
		{"anonymous read", anon, http.MethodGet, true},
		{"anonymous write", anon, http.MethodPatch, false},
		{"author patch", user, http.MethodPatch, true},
		{"author delete", user, http.MethodDelete, true},
		{"other user patch", Principal{UserID: 9, Role: models.RoleUser, Authenticated: true}, http.MethodPatch, false},
		{"moderator delete", moderator, http.MethodDelete, true},
		{"admin patch", admin, http.MethodPatch, true},
		{"superuser delete", superuser, http.MethodDelete, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModifyAuthored(tt.p, tt.method, authorID))
		})
	}
}

func TestCanManageUsers(t *testing.T) {
	assert.False(t, CanManageUsers(anon))
	assert.False(t, CanManageUsers(user))
	assert.False(t, CanManageUsers(moderator))
	assert.True(t, CanManageUsers(admin))
	assert.True(t, CanManageUsers(superuser))
}

func TestRoleFlagsIgnoreUnauthenticated(t *testing.T) {
	// a role without authentication never grants anything
	p := Principal{Role: models.RoleAdmin}
	assert.False(t, p.IsAdmin())
	assert.False(t, p.IsStaff())
}
