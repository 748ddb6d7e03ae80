package mw

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

type tokensStub struct {
	username string // валидный токен — "tok-" + username
}

func (t tokensStub) Issue(_ context.Context, id domain.UserID, username string) (domain.Token, domain.TokenClaims, error) {
	return "tok-" + username, domain.TokenClaims{UserID: id, Username: username}, nil
}

func (t tokensStub) Parse(_ context.Context, raw domain.Token) (domain.TokenClaims, error) {
	if raw != "tok-"+t.username {
		return domain.TokenClaims{}, errors.New("bad signature")
	}
	return domain.TokenClaims{UserID: 1, Username: t.username}, nil
}

type storeStub struct {
	active map[string]string
}

func (s *storeStub) Set(_ context.Context, username string, token domain.Token) error {
	s.active[username] = token
	return nil
}
func (s *storeStub) Get(_ context.Context, username string) (domain.Token, error) {
	return s.active[username], nil
}
func (s *storeStub) Remove(_ context.Context, username string) error {
	delete(s.active, username)
	return nil
}

type loaderStub struct {
	user *domain.User
}

func (l loaderStub) ProfileByName(_ context.Context, username string) (*domain.User, error) {
	if l.user != nil && l.user.Username == username {
		cp := *l.user
		return &cp, nil
	}
	return nil, nil
}

func deps(role string) (AuthDeps, *storeStub) {
	store := &storeStub{active: map[string]string{"alice": "tok-alice"}}
	return AuthDeps{
		Tokens: tokensStub{username: "alice"},
		Store:  store,
		Users:  loaderStub{user: &domain.User{ID: 1, Username: "alice", Role: role}},
	}, store
}

func echoUser(t *testing.T, got *domain.User) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := domain.UserFromCtx(r.Context()); ok {
			*got = u
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	d, _ := deps(domain.RoleUser)
	var got domain.User

	rec := httptest.NewRecorder()
	RequireAuth(d, echoUser(t, &got)).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthAcceptsActiveToken(t *testing.T) {
	d, _ := deps(domain.RoleUser)
	var got domain.User

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer tok-alice")
	rec := httptest.NewRecorder()
	RequireAuth(d, echoUser(t, &got)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.Username != "alice" {
		t.Fatalf("user in ctx = %q, want alice", got.Username)
	}
}

// Отозванная сессия: подпись токена ещё валидна, но в кеше его уже нет.
func TestRequireAuthRejectsRevokedToken(t *testing.T) {
	d, store := deps(domain.RoleUser)
	_ = store.Remove(context.Background(), "alice")

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer tok-alice")
	rec := httptest.NewRecorder()
	RequireAuth(d, echoUser(t, new(domain.User))).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 after revoke", rec.Code)
	}
}

// Повторный логин перезаписал активный токен — старый больше не проходит.
func TestRequireAuthRejectsSupersededToken(t *testing.T) {
	d, store := deps(domain.RoleUser)
	_ = store.Set(context.Background(), "alice", "tok-alice-2")

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer tok-alice")
	rec := httptest.NewRecorder()
	RequireAuth(d, echoUser(t, new(domain.User))).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for superseded token", rec.Code)
	}
}

func TestRequireAdminGatesByRole(t *testing.T) {
	for role, want := range map[string]int{
		domain.RoleUser:       http.StatusForbidden,
		domain.RoleAdmin:      http.StatusOK,
		domain.RoleSuperAdmin: http.StatusOK,
	} {
		d, _ := deps(role)
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer tok-alice")
		rec := httptest.NewRecorder()
		RequireAdmin(d, echoUser(t, new(domain.User))).ServeHTTP(rec, req)

		if rec.Code != want {
			t.Fatalf("role %s: status = %d, want %d", role, rec.Code, want)
		}
	}
}

func TestRequireSuperAdminGatesByRole(t *testing.T) {
	d, _ := deps(domain.RoleAdmin)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer tok-alice")
	rec := httptest.NewRecorder()
	RequireSuperAdmin(d, echoUser(t, new(domain.User))).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for plain admin", rec.Code)
	}
}

func TestOptionalAuthPassesAnonymously(t *testing.T) {
	d, _ := deps(domain.RoleUser)
	var got domain.User

	rec := httptest.NewRecorder()
	OptionalAuth(d, echoUser(t, &got)).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.Username != "" {
		t.Fatalf("anonymous request carried user %q", got.Username)
	}
}
