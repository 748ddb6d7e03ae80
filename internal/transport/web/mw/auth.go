package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

// UserLoader отдаёт профиль по имени (сквозь кеш пользователей).
type UserLoader interface {
	ProfileByName(ctx context.Context, username string) (*domain.User, error)
}

type AuthDeps struct {
	Tokens domain.TokenManager
	Store  domain.TokenStore
	Users  UserLoader
}

// authenticate: подпись валидна И токен совпадает с активным в кеше.
// Logout и повторный логин отзывают старую сессию мгновенно — подпись
// ещё не истекла, но в кеше токена уже нет.
func (d AuthDeps) authenticate(r *http.Request) (domain.User, bool) {
	raw := extractBearer(r.Header.Get("Authorization"))
	if raw == "" {
		return domain.User{}, false
	}
	claims, err := d.Tokens.Parse(r.Context(), raw)
	if err != nil {
		return domain.User{}, false
	}
	active, err := d.Store.Get(r.Context(), claims.Username)
	if err != nil || active != raw {
		return domain.User{}, false
	}
	u, err := d.Users.ProfileByName(r.Context(), claims.Username)
	if err != nil || u == nil {
		return domain.User{}, false
	}
	return *u, true
}

func OptionalAuth(deps AuthDeps, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := deps.authenticate(r)
		if !ok {
			next.ServeHTTP(w, r) // без пользователя
			return
		}
		next.ServeHTTP(w, r.WithContext(domain.WithUser(r.Context(), u)))
	})
}

func RequireAuth(deps AuthDeps, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := deps.authenticate(r)
		if !ok {
			http.Error(w, `{"error":{"code":1001,"text":"unauthorized"}}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(domain.WithUser(r.Context(), u)))
	})
}

func RequireAdmin(deps AuthDeps, next http.Handler) http.Handler {
	return RequireAuth(deps, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, _ := domain.UserFromCtx(r.Context())
		if !u.IsAdmin() {
			http.Error(w, `{"error":{"code":1003,"text":"forbidden"}}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func RequireSuperAdmin(deps AuthDeps, next http.Handler) http.Handler {
	return RequireAuth(deps, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, _ := domain.UserFromCtx(r.Context())
		if !u.IsSuperAdmin() {
			http.Error(w, `{"error":{"code":1003,"text":"forbidden"}}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func extractBearer(h string) string {
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
