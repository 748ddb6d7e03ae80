package cache

import (
	"context"
	"log"
	"time"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

// UserCache — профили, активные токены, одноразовые почтовые коды
// и конфиг витрины.
type UserCache struct {
	kv       domain.KV
	log      *log.Logger
	tokenTTL time.Duration
}

func NewUserCache(kv domain.KV, logger *log.Logger, tokenDays int) *UserCache {
	if tokenDays <= 0 {
		tokenDays = 7
	}
	return &UserCache{kv: kv, log: logger, tokenTTL: time.Duration(tokenDays) * 24 * time.Hour}
}

var _ domain.TokenStore = (*UserCache)(nil)

// GetUser — профиль по имени; кешируется вместе с хэшем пароля,
// чтобы логин не ходил в БД на каждую попытку.
func (c *UserCache) GetUser(ctx context.Context, username string) (*domain.User, bool) {
	b, err := c.kv.Get(ctx, domain.CacheKeyUserInfo(username))
	if err != nil || b == nil {
		return nil, false
	}
	var u domain.User
	if err := json.Unmarshal(b, &u); err != nil {
		c.log.Printf("user %s: malformed cache entry: %v", username, err)
		return nil, false
	}
	return &u, true
}

func (c *UserCache) SetUser(ctx context.Context, u domain.User) {
	b, err := json.Marshal(u)
	if err != nil {
		c.log.Printf("user %s: marshal: %v", u.Username, err)
		return
	}
	if err := c.kv.Set(ctx, domain.CacheKeyUserInfo(u.Username), b, domain.TTLUserInfo); err != nil {
		c.log.Printf("user %s: cache set skipped: %v", u.Username, err)
	}
}

// InvalidateUser — после смены роли или профиля.
func (c *UserCache) InvalidateUser(ctx context.Context, username string) {
	if err := c.kv.Del(ctx, domain.CacheKeyUserInfo(username)); err != nil {
		c.log.Printf("user %s: invalidate failed: %v", username, err)
	}
}

// Set перезаписывает активный токен пользователя: логин на новом
// устройстве отзывает сессию на старом.
func (c *UserCache) Set(ctx context.Context, username string, token domain.Token) error {
	return c.kv.Set(ctx, domain.CacheKeyUserToken(username), []byte(token), c.tokenTTL)
}

func (c *UserCache) Get(ctx context.Context, username string) (domain.Token, error) {
	b, err := c.kv.Get(ctx, domain.CacheKeyUserToken(username))
	if err != nil {
		return "", err
	}
	return domain.Token(b), nil
}

func (c *UserCache) Remove(ctx context.Context, username string) error {
	return c.kv.Del(ctx, domain.CacheKeyUserToken(username))
}

// SetEmailCode — код подтверждения живёт минуту, повторная отправка
// раньше не имеет смысла.
func (c *UserCache) SetEmailCode(ctx context.Context, email, code string) error {
	return c.kv.Set(ctx, domain.CacheKeyEmailCode(email), []byte(code), domain.TTLEmailCode)
}

func (c *UserCache) EmailCode(ctx context.Context, email string) (string, bool) {
	b, err := c.kv.Get(ctx, domain.CacheKeyEmailCode(email))
	if err != nil || b == nil {
		return "", false
	}
	return string(b), true
}

func (c *UserCache) RemoveEmailCode(ctx context.Context, email string) {
	if err := c.kv.Del(ctx, domain.CacheKeyEmailCode(email)); err != nil {
		c.log.Printf("email code %s: remove failed: %v", email, err)
	}
}

// WebsiteConfig живёт только в кеше; на промахе отдаём дефолт.
func (c *UserCache) WebsiteConfig(ctx context.Context) domain.WebsiteConfig {
	b, err := c.kv.Get(ctx, domain.KeyWebsiteConfig)
	if err != nil || b == nil {
		return domain.DefaultWebsiteConfig()
	}
	var cfg domain.WebsiteConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		c.log.Printf("website config: malformed cache entry: %v", err)
		return domain.DefaultWebsiteConfig()
	}
	return cfg
}

func (c *UserCache) SetWebsiteConfig(ctx context.Context, cfg domain.WebsiteConfig) error {
	b, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, domain.KeyWebsiteConfig, b, 0)
}
