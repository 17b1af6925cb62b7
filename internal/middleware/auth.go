package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pandenic/media-review-board/internal/access"
	"github.com/pandenic/media-review-board/internal/api/httpx"
	"github.com/pandenic/media-review-board/internal/auth"
	"github.com/pandenic/media-review-board/internal/repository"
)

type AuthMiddleware struct {
	TM    *auth.TokenManager
	Users repository.Users
}

func NewAuthMiddleware(tm *auth.TokenManager, users repository.Users) *AuthMiddleware {
	return &AuthMiddleware{TM: tm, Users: users}
}

// Authenticate resolves the bearer token, if any, to a principal. Requests
// without an Authorization header continue as anonymous; a header with a
// bad or stale token is rejected.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if ah == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token", nil)
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		claims, err := m.TM.Parse(token)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid access token", nil)
			return
		}
		u, err := m.Users.GetByID(r.Context(), claims.UserID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "user not found", nil)
			return
		case err != nil:
			slog.Error("load token user", "uid", claims.UserID, "err", err, "request_id", RequestIDFrom(r.Context()))
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
			return
		}
		ctx := WithPrincipal(r.Context(), access.FromUser(u))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
