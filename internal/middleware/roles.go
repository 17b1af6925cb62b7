package middleware

import (
	"net/http"

	"github.com/pandenic/media-review-board/internal/access"
	"github.com/pandenic/media-review-board/internal/api/httpx"
)

func unauthorized(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "authentication credentials were not provided", nil)
}

func forbidden(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusForbidden, "forbidden", "you do not have permission to perform this action", nil)
}

// RequireAuth lets through authenticated callers only.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !PrincipalFrom(r.Context()).Authenticated {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuthForWrites leaves safe methods open and asks for credentials on
// the rest.
func RequireAuthForWrites(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !access.IsSafeMethod(r.Method) && !PrincipalFrom(r.Context()).Authenticated {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin guards user management.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := PrincipalFrom(r.Context())
		if !p.Authenticated {
			unauthorized(w)
			return
		}
		if !access.CanManageUsers(p) {
			forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CatalogWriters leaves catalog reads open and restricts writes to admins.
// Anonymous writers get 403 like everyone else without the role.
func CatalogWriters(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !access.IsSafeMethod(r.Method) && !access.CanWriteCatalog(PrincipalFrom(r.Context())) {
			forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
