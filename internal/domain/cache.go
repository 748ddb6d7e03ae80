package domain

import (
	"context"
	"fmt"
	"time"
)

// Ключи кеша — единое место, чтобы схема не расползалась по коду.
// Каждая функция — один ключ из таблицы схемы; конкатенаций по месту нет.

const (
	keyUserInfoPrefix  = "USER-INFO:"
	keyUserTokenPrefix = "USER-TOKEN:"
	keyEmailCodePrefix = "EMAIL-CODE:"
	keyPageInfoPrefix  = "BLOG-PAGE-INFO:"

	KeyBlogMap       = "BLOG-MAP"
	KeyEyeCountMap   = "BLOG_EYE_COUNT_MAP_KEY"
	KeySaveBlogMap   = "SAVE-BLOG-MAP"
	KeyHotBlog       = "HOT-BLOG"
	KeyLatestBlog    = "LATEST-BLOG"
	KeyRecommendBlog = "RECOMMEND-BLOG-KEY"
	KeyCategoryList  = "CATEGORY-LIST"
	KeyRandomTag     = "RANDOM-TAG"
	KeyTagMap        = "TAG-MAP"
	KeyTopicMap      = "TOPIC-MAP"
	KeyFirstTopic    = "FIRST-TOPIC-KEY"
	KeyWebsiteConfig = "WEBSITE-CONFIG"
)

func CacheKeyUserInfo(username string) string  { return keyUserInfoPrefix + username }
func CacheKeyUserToken(username string) string { return keyUserTokenPrefix + username }
func CacheKeyEmailCode(email string) string    { return keyEmailCodePrefix + email }

// CacheKeyBlogPage — составной ключ листинга: страница + сортировка + категория.
func CacheKeyBlogPage(page int64, sort SortMode, cid CategoryID) string {
	return fmt.Sprintf("%s%d_%s_%d", keyPageInfoPrefix, page, sort, cid)
}

// CacheKeyBlogPagePrefix — префикс для массовой инвалидации листингов.
func CacheKeyBlogPagePrefix() string { return keyPageInfoPrefix }

// Времена жизни записей.
const (
	TTLUserInfo   = 30 * time.Minute
	TTLHotBlog    = 30 * time.Minute
	TTLLatestBlog = 3 * time.Hour
	TTLEmailCode  = time.Minute
	TTLFirstTopic = 8 * time.Hour
)

// KV — порт key-value хранилища. Реализация — Redis.
// Get/HGet возвращают (nil, nil) на промахе: промах — не ошибка.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error

	HGet(ctx context.Context, key, field string) ([]byte, error)
	HSet(ctx context.Context, key, field string, val []byte) error
	HDel(ctx context.Context, key string, fields ...string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	// HSetNX + HIncrBy — атомарный «посей или нарасти» для счётчиков.
	HSetNX(ctx context.Context, key, field string, val []byte) (bool, error)
	HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error)

	SAdd(ctx context.Context, key string, members ...string) error
	SRandMemberN(ctx context.Context, key string, count int64) ([]string, error)

	// ScanKeys перечисляет ключи по префиксу (SCAN, не KEYS).
	ScanKeys(ctx context.Context, prefix string) ([]string, error)
	// Rename атомарно переименовывает ключ; (false, nil) если ключа нет.
	Rename(ctx context.Context, src, dst string) (bool, error)

	Ping(ctx context.Context) error
	Close()
}
