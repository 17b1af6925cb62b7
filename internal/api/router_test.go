package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pandenic/media-review-board/internal/auth"
	"github.com/pandenic/media-review-board/internal/config"
	"github.com/pandenic/media-review-board/internal/mail"
	"github.com/pandenic/media-review-board/internal/middleware"
	"github.com/pandenic/media-review-board/internal/models"
	"github.com/pandenic/media-review-board/internal/repository"
	"github.com/pandenic/media-review-board/internal/repository/memory"
	"github.com/pandenic/media-review-board/internal/services"
)

type inline struct{}

func (inline) Submit(f func()) bool { f(); return true }

type outbox struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (o *outbox) Send(_ context.Context, m mail.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, m)
	return nil
}

type env struct {
	t      *testing.T
	srv    *httptest.Server
	repos  repository.Repositories
	tokens *auth.TokenManager
	mails  *outbox
}

func newEnv(t *testing.T) *env {
	t.Helper()
	cfg := config.Config{
		ConfirmationTTL: time.Hour,
		PageSize:        2,
		MinScore:        1,
		MaxScore:        10,
	}
	repos := memory.NewRepositories()
	tm := auth.NewTokenManager("secret", "test", time.Hour)
	mails := &outbox{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := NewRouter(RouterDeps{
		Cfg:        cfg,
		Log:        log,
		Auth:       middleware.NewAuthMiddleware(tm, repos.Users),
		Users:      services.NewUserService(repos.Users, tm, mails, inline{}, cfg),
		Categories: services.NewTaxonomyService(repos.Categories),
		Genres:     services.NewTaxonomyService(repos.Genres),
		Titles:     services.NewTitleService(repos),
		Reviews:    services.NewReviewService(repos, services.ScoreBounds{Min: cfg.MinScore, Max: cfg.MaxScore}),
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &env{t: t, srv: srv, repos: repos, tokens: tm, mails: mails}
}

// user creates an account directly in storage and returns its bearer token.
func (e *env) user(name string, role models.Role) string {
	e.t.Helper()
	u, err := e.repos.Users.Create(context.Background(), models.User{Username: name, Email: name + "@example.com", Role: role})
	require.NoError(e.t, err)
	tok, _, err := e.tokens.Generate(u.ID, string(u.Role))
	require.NoError(e.t, err)
	return tok
}

func (e *env) do(method, path, token string, body any) (int, map[string]any) {
	e.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(e.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(e.t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (e *env) seedCatalog(admin string) {
	e.t.Helper()
	code, _ := e.do("POST", "/v1/categories/", admin, map[string]string{"name": "Films", "slug": "films"})
	require.Equal(e.t, http.StatusCreated, code)
	code, _ = e.do("POST", "/v1/genres/", admin, map[string]string{"name": "Drama", "slug": "drama"})
	require.Equal(e.t, http.StatusCreated, code)
}

func (e *env) createTitle(admin, name string, year int) int64 {
	e.t.Helper()
	code, body := e.do("POST", "/v1/titles/", admin, map[string]any{
		"name": name, "year": year, "category": "films", "genre": []string{"drama"},
	})
	require.Equal(e.t, http.StatusCreated, code, body)
	return int64(body["id"].(float64))
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	resp, err := http.Get(e.srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignupTokenFlow(t *testing.T) {
	e := newEnv(t)

	code, body := e.do("POST", "/v1/auth/signup/", "", map[string]string{"username": "me", "email": "me@example.com"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation_failed", body["code"])

	code, body = e.do("POST", "/v1/auth/signup/", "", map[string]string{"username": "alice", "email": "alice@example.com"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice", body["username"])
	require.Len(t, e.mails.sent, 1)
	confirmation := strings.TrimPrefix(e.mails.sent[0].Body, "Confirmation code: ")

	code, _ = e.do("POST", "/v1/auth/signup/", "", map[string]string{"username": "alice", "email": "other@example.com"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = e.do("POST", "/v1/auth/token/", "", map[string]string{"username": "nobody", "confirmation_code": confirmation})
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = e.do("POST", "/v1/auth/token/", "", map[string]string{"username": "alice", "confirmation_code": "wrong"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = e.do("POST", "/v1/auth/token/", "", map[string]string{"username": "alice", "confirmation_code": confirmation})
	require.Equal(t, http.StatusOK, code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	code, body = e.do("GET", "/v1/users/me/", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice@example.com", body["email"])
	assert.Equal(t, "user", body["role"])
}

func TestCatalogPermissions(t *testing.T) {
	e := newEnv(t)
	admin := e.user("admin", models.RoleAdmin)
	user := e.user("bob", models.RoleUser)
	e.seedCatalog(admin)

	code, _ := e.do("GET", "/v1/titles/", "", nil)
	assert.Equal(t, http.StatusOK, code)

	title := map[string]any{"name": "Heat", "year": 1995, "category": "films", "genre": []string{"drama"}}
	code, _ = e.do("POST", "/v1/titles/", "", title)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = e.do("POST", "/v1/titles/", user, title)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = e.do("DELETE", "/v1/genres/drama/", user, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body := e.do("POST", "/v1/titles/", admin, title)
	require.Equal(t, http.StatusCreated, code)
	assert.Nil(t, body["rating"])
	assert.Equal(t, "films", body["category"].(map[string]any)["slug"])

	code, body = e.do("POST", "/v1/titles/", admin, map[string]any{
		"name": "Later", "year": time.Now().Year() + 1, "category": "films", "genre": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, code, body)

	code, _ = e.do("PUT", "/v1/titles/1/", admin, title)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	code, _ = e.do("GET", "/v1/titles/abc/", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = e.do("DELETE", "/v1/categories/films/", admin, nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, body = e.do("GET", "/v1/titles/1/", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, body["category"])
}

func TestTitleFiltersAndPagination(t *testing.T) {
	e := newEnv(t)
	admin := e.user("admin", models.RoleAdmin)
	e.seedCatalog(admin)
	e.createTitle(admin, "Heat", 1995)
	e.createTitle(admin, "Ronin", 1998)
	e.createTitle(admin, "Heat Wave", 1998)

	code, body := e.do("GET", "/v1/titles/", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, body["count"])
	assert.Len(t, body["results"], 2)
	assert.NotNil(t, body["next"])
	assert.Nil(t, body["previous"])

	code, body = e.do("GET", "/v1/titles/?page=2", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["results"], 1)
	assert.Nil(t, body["next"])

	code, _ = e.do("GET", "/v1/titles/?page=9", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = e.do("GET", "/v1/titles/?name=heat&year=1998", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["count"])

	code, body = e.do("GET", "/v1/titles/?genre=drama&category=films", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, body["count"])

	code, _ = e.do("GET", "/v1/titles/?year=soon", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = e.do("GET", "/v1/titles/?year=4294967296", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	for _, path := range []string{
		"/v1/titles/?page=9223372036854775807",
		"/v1/genres/?page=9223372036854775807",
		"/v1/categories/?page=4611686018427387904",
	} {
		code, _ = e.do("GET", path, "", nil)
		assert.Equal(t, http.StatusNotFound, code, path)
	}
}

func TestReviewsAndComments(t *testing.T) {
	e := newEnv(t)
	admin := e.user("admin", models.RoleAdmin)
	alice := e.user("alice", models.RoleUser)
	bob := e.user("bob", models.RoleUser)
	mod := e.user("mod", models.RoleModerator)
	e.seedCatalog(admin)
	id := e.createTitle(admin, "Heat", 1995)
	reviews := "/v1/titles/" + itoa(id) + "/reviews/"

	code, _ := e.do("POST", reviews, "", map[string]any{"text": "great", "score": 5})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := e.do("POST", reviews, alice, map[string]any{"text": "great", "score": 5})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "alice", body["author"])
	reviewID := int64(body["id"].(float64))

	code, _ = e.do("POST", reviews, alice, map[string]any{"text": "again", "score": 9})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = e.do("POST", reviews, bob, map[string]any{"text": "meh", "score": 11})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = e.do("POST", reviews, bob, map[string]any{"text": "fine", "score": 6})
	require.Equal(t, http.StatusCreated, code)

	code, body = e.do("GET", "/v1/titles/"+itoa(id)+"/", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 5.5, body["rating"], 1e-9)

	review := reviews + itoa(reviewID) + "/"
	code, _ = e.do("PATCH", review, bob, map[string]any{"score": 1})
	assert.Equal(t, http.StatusForbidden, code)
	code, body = e.do("PATCH", review, alice, map[string]any{"score": 7})
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 7, body["score"])

	comments := review + "comments/"
	code, body = e.do("POST", comments, bob, map[string]any{"text": "agree"})
	require.Equal(t, http.StatusCreated, code)
	commentID := int64(body["id"].(float64))

	code, body = e.do("GET", comments, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["count"])

	code, _ = e.do("DELETE", comments+itoa(commentID)+"/", alice, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = e.do("DELETE", comments+itoa(commentID)+"/", mod, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = e.do("GET", "/v1/titles/999/reviews/", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUserManagement(t *testing.T) {
	e := newEnv(t)
	admin := e.user("admin", models.RoleAdmin)
	user := e.user("bob", models.RoleUser)

	code, _ := e.do("GET", "/v1/users/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = e.do("GET", "/v1/users/", user, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body := e.do("GET", "/v1/users/?search=bo", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["count"])

	code, _ = e.do("POST", "/v1/users/", admin, map[string]string{"username": "me", "email": "me@example.com"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, body = e.do("POST", "/v1/users/", admin, map[string]string{"username": "carol", "email": "carol@example.com", "role": "moderator"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "moderator", body["role"])

	code, body = e.do("PATCH", "/v1/users/bob/", admin, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "admin", body["role"])

	code, body = e.do("PATCH", "/v1/users/me/", user, map[string]string{"role": "user", "bio": "hello"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, "hello", body["bio"])

	code, _ = e.do("DELETE", "/v1/users/me/", user, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, code)

	code, _ = e.do("DELETE", "/v1/users/carol/", admin, nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = e.do("GET", "/v1/users/carol/", admin, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = e.do("GET", "/v1/users/me/", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
