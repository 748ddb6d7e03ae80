package cache

import (
	"context"
	"testing"

	"github.com/shuyuzheng19/go-blog-api/internal/cache/cachetest"
	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

func TestUserCacheProfile(t *testing.T) {
	ctx := context.Background()
	c := NewUserCache(cachetest.New(), discard(), 7)

	if _, hit := c.GetUser(ctx, "alice"); hit {
		t.Fatal("expected miss")
	}
	c.SetUser(ctx, domain.User{ID: 1, Username: "alice", Password: "$argon2id$...", Role: domain.RoleUser})
	u, hit := c.GetUser(ctx, "alice")
	if !hit {
		t.Fatal("expected hit")
	}
	// хэш пароля обязан пережить кеш: логин сверяет его без похода в БД
	if u.Password != "$argon2id$..." {
		t.Fatalf("password hash lost in cache: %q", u.Password)
	}

	c.InvalidateUser(ctx, "alice")
	if _, hit := c.GetUser(ctx, "alice"); hit {
		t.Fatal("expected miss after invalidation")
	}
}

func TestSingleActiveToken(t *testing.T) {
	ctx := context.Background()
	c := NewUserCache(cachetest.New(), discard(), 7)

	if err := c.Set(ctx, "alice", "token-old"); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "alice", "token-new"); err != nil {
		t.Fatal(err)
	}

	got, err := c.Get(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if got != "token-new" {
		t.Fatalf("active token = %q, want token-new", got)
	}
}

func TestLogoutRemovesToken(t *testing.T) {
	ctx := context.Background()
	c := NewUserCache(cachetest.New(), discard(), 7)

	if err := c.Set(ctx, "alice", "token"); err != nil {
		t.Fatal(err)
	}
	if err := c.Remove(ctx, "alice"); err != nil {
		t.Fatal(err)
	}
	got, err := c.Get(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("token survived logout: %q", got)
	}
}

func TestEmailCode(t *testing.T) {
	ctx := context.Background()
	c := NewUserCache(cachetest.New(), discard(), 7)

	if _, ok := c.EmailCode(ctx, "a@b.c"); ok {
		t.Fatal("expected no code")
	}
	if err := c.SetEmailCode(ctx, "a@b.c", "123456"); err != nil {
		t.Fatal(err)
	}
	code, ok := c.EmailCode(ctx, "a@b.c")
	if !ok || code != "123456" {
		t.Fatalf("code = %q ok=%v", code, ok)
	}
	c.RemoveEmailCode(ctx, "a@b.c")
	if _, ok := c.EmailCode(ctx, "a@b.c"); ok {
		t.Fatal("expected code gone")
	}
}

func TestWebsiteConfigDefaultOnMiss(t *testing.T) {
	ctx := context.Background()
	c := NewUserCache(cachetest.New(), discard(), 7)

	cfg := c.WebsiteConfig(ctx)
	if cfg.Icons == nil || cfg.Descriptions == nil {
		t.Fatal("default config must have non-nil slices")
	}

	cfg.Name = "my blog"
	if err := c.SetWebsiteConfig(ctx, cfg); err != nil {
		t.Fatal(err)
	}
	if got := c.WebsiteConfig(ctx); got.Name != "my blog" {
		t.Fatalf("config name = %q", got.Name)
	}
}
