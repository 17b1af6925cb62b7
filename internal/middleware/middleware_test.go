package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pandenic/media-review-board/internal/access"
	"github.com/pandenic/media-review-board/internal/auth"
	"github.com/pandenic/media-review-board/internal/models"
	"github.com/pandenic/media-review-board/internal/repository/memory"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rec := serve(h, httptest.NewRequest("GET", "/", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	in := uuid.NewString()
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set(RequestIDHeader, in)
	serve(h, r)
	assert.Equal(t, in, seen)
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := serve(h, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(2)(ok)
	r := func(addr string) *http.Request {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = addr
		return req
	}
	assert.Equal(t, http.StatusNoContent, serve(h, r("10.0.0.1:1000")).Code)
	assert.Equal(t, http.StatusNoContent, serve(h, r("10.0.0.1:1001")).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(h, r("10.0.0.1:1002")).Code)
	assert.Equal(t, http.StatusNoContent, serve(h, r("10.0.0.2:1000")).Code)
}

func withPrincipal(r *http.Request, p access.Principal) *http.Request {
	return r.WithContext(WithPrincipal(r.Context(), p))
}

func TestRoleGuards(t *testing.T) {
	anon := access.Principal{}
	user := access.Principal{UserID: 1, Role: models.RoleUser, Authenticated: true}
	admin := access.Principal{UserID: 2, Role: models.RoleAdmin, Authenticated: true}

	tests := []struct {
		name   string
		guard  func(http.Handler) http.Handler
		method string
		p      access.Principal
		want   int
	}{
		{"auth anon", RequireAuth, "GET", anon, http.StatusUnauthorized},
		{"auth user", RequireAuth, "GET", user, http.StatusNoContent},
		{"writes anon read", RequireAuthForWrites, "GET", anon, http.StatusNoContent},
		{"writes anon post", RequireAuthForWrites, "POST", anon, http.StatusUnauthorized},
		{"writes user post", RequireAuthForWrites, "POST", user, http.StatusNoContent},
		{"admin anon", RequireAdmin, "GET", anon, http.StatusUnauthorized},
		{"admin user", RequireAdmin, "GET", user, http.StatusForbidden},
		{"admin admin", RequireAdmin, "GET", admin, http.StatusNoContent},
		{"catalog anon read", CatalogWriters, "GET", anon, http.StatusNoContent},
		{"catalog anon post", CatalogWriters, "POST", anon, http.StatusForbidden},
		{"catalog user delete", CatalogWriters, "DELETE", user, http.StatusForbidden},
		{"catalog admin patch", CatalogWriters, "PATCH", admin, http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := withPrincipal(httptest.NewRequest(tc.method, "/", nil), tc.p)
			assert.Equal(t, tc.want, serve(tc.guard(ok), r).Code)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	users := memory.NewRepositories().Users
	u, err := users.Create(context.Background(), models.User{Username: "alice", Email: "a@example.com", Role: models.RoleModerator})
	require.NoError(t, err)
	tm := auth.NewTokenManager("secret", "test", time.Hour)
	good, _, err := tm.Generate(u.ID, string(u.Role))
	require.NoError(t, err)
	orphan, _, err := tm.Generate(u.ID+100, "user")
	require.NoError(t, err)

	var got access.Principal
	h := NewAuthMiddleware(tm, users).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = PrincipalFrom(r.Context())
	}))

	t.Run("anonymous", func(t *testing.T) {
		got = access.Principal{Authenticated: true}
		rec := serve(h, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, got.Authenticated)
	})
	t.Run("valid token", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer "+good)
		serve(h, r)
		assert.True(t, got.Authenticated)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, models.RoleModerator, got.Role)
	})
	for name, header := range map[string]string{
		"garbage":      "Bearer nope",
		"wrong scheme": "Basic " + good,
		"deleted user": "Bearer " + orphan,
	} {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.Header.Set("Authorization", header)
			assert.Equal(t, http.StatusUnauthorized, serve(h, r).Code)
		})
	}
}
