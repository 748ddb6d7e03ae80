package cache

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

// BlogCache — кеш содержимого постов: детальная карточка, hot/latest,
// кураторская подборка, черновики и счётчик просмотров.
type BlogCache struct {
	kv  domain.KV
	log *log.Logger
}

func NewBlogCache(kv domain.KV, logger *log.Logger) *BlogCache {
	return &BlogCache{kv: kv, log: logger}
}

// GetBlog возвращает (blog, hit). hit=true и blog=nil — закешированное
// «такого поста нет».
func (c *BlogCache) GetBlog(ctx context.Context, id domain.BlogID) (*domain.BlogContent, bool) {
	b, err := c.kv.HGet(ctx, domain.KeyBlogMap, field(id))
	if err != nil || b == nil {
		return nil, false
	}
	if isNegative(b) {
		return nil, true
	}
	var blog domain.BlogContent
	if err := json.Unmarshal(b, &blog); err != nil {
		// битый JSON равносилен промаху: перечитаем из БД
		c.log.Printf("blog %d: malformed cache entry: %v", id, err)
		return nil, false
	}
	return &blog, true
}

// SetBlog кеширует пост; nil кешируется как отрицательная запись.
func (c *BlogCache) SetBlog(ctx context.Context, id domain.BlogID, blog *domain.BlogContent) {
	payload := negative
	if blog != nil {
		b, err := json.Marshal(blog)
		if err != nil {
			c.log.Printf("blog %d: marshal: %v", id, err)
			return
		}
		payload = b
	}
	if err := c.kv.HSet(ctx, domain.KeyBlogMap, field(id), payload); err != nil {
		c.log.Printf("blog %d: cache set skipped: %v", id, err)
	}
}

// DeleteBlog — точечная инвалидация после обновления поста.
// Отказ не фатален: запись самоисправится на следующем чтении.
func (c *BlogCache) DeleteBlog(ctx context.Context, id domain.BlogID) {
	if err := c.kv.HDel(ctx, domain.KeyBlogMap, field(id)); err != nil {
		c.log.Printf("blog %d: invalidate failed: %v", id, err)
	}
}

// IncreaseView — горячий путь счётчика просмотров: только кеш, без БД.
// HSetNX сеет поле прежним значением из БД, HIncrBy наращивает; оба
// вызова атомарны на стороне хранилища, поэтому N конкурентных вызовов
// дают ровно fallback+N независимо от порядка.
func (c *BlogCache) IncreaseView(ctx context.Context, id domain.BlogID, fallback int64) int64 {
	f := field(id)
	seed := []byte(strconv.FormatInt(fallback, 10))
	if _, err := c.kv.HSetNX(ctx, domain.KeyEyeCountMap, f, seed); err != nil {
		c.log.Printf("view %d: seed failed: %v", id, err)
		return fallback + 1
	}
	n, err := c.kv.HIncrBy(ctx, domain.KeyEyeCountMap, f, 1)
	if err != nil {
		c.log.Printf("view %d: incr failed: %v", id, err)
		return fallback + 1
	}
	return n
}

func (c *BlogCache) HotBlogs(ctx context.Context) ([]domain.SimpleBlog, bool) {
	return c.getSimpleList(ctx, domain.KeyHotBlog)
}

func (c *BlogCache) SetHotBlogs(ctx context.Context, blogs []domain.SimpleBlog) {
	c.setList(ctx, domain.KeyHotBlog, blogs, domain.TTLHotBlog)
}

func (c *BlogCache) LatestBlogs(ctx context.Context) ([]domain.SimpleBlog, bool) {
	return c.getSimpleList(ctx, domain.KeyLatestBlog)
}

func (c *BlogCache) SetLatestBlogs(ctx context.Context, blogs []domain.SimpleBlog) {
	c.setList(ctx, domain.KeyLatestBlog, blogs, domain.TTLLatestBlog)
}

// ResetLatest — явный админский сброс блока «свежее».
func (c *BlogCache) ResetLatest(ctx context.Context) {
	if err := c.kv.Del(ctx, domain.KeyLatestBlog); err != nil {
		c.log.Printf("latest: reset failed: %v", err)
	}
}

// RecommendBlogs — подборка без TTL; пустой срез на промахе.
func (c *BlogCache) RecommendBlogs(ctx context.Context) []domain.RecommendBlog {
	b, err := c.kv.Get(ctx, domain.KeyRecommendBlog)
	if err != nil || b == nil {
		return []domain.RecommendBlog{}
	}
	var blogs []domain.RecommendBlog
	if err := json.Unmarshal(b, &blogs); err != nil {
		c.log.Printf("recommend: malformed cache entry: %v", err)
		return []domain.RecommendBlog{}
	}
	return blogs
}

func (c *BlogCache) SetRecommendBlogs(ctx context.Context, blogs []domain.RecommendBlog) {
	b, err := json.Marshal(blogs)
	if err != nil {
		c.log.Printf("recommend: marshal: %v", err)
		return
	}
	if err := c.kv.Set(ctx, domain.KeyRecommendBlog, b, 0); err != nil {
		c.log.Printf("recommend: cache set skipped: %v", err)
	}
}

// SetDraft сохраняет черновик пользователя до явного save/discard.
func (c *BlogCache) SetDraft(ctx context.Context, uid domain.UserID, content string) error {
	return c.kv.HSet(ctx, domain.KeySaveBlogMap, field(uid), []byte(content))
}

func (c *BlogCache) Draft(ctx context.Context, uid domain.UserID) (string, bool) {
	b, err := c.kv.HGet(ctx, domain.KeySaveBlogMap, field(uid))
	if err != nil || b == nil {
		return "", false
	}
	return string(b), true
}

func (c *BlogCache) DiscardDraft(ctx context.Context, uid domain.UserID) {
	if err := c.kv.HDel(ctx, domain.KeySaveBlogMap, field(uid)); err != nil {
		c.log.Printf("draft %d: discard failed: %v", uid, err)
	}
}

func (c *BlogCache) getSimpleList(ctx context.Context, key string) ([]domain.SimpleBlog, bool) {
	b, err := c.kv.Get(ctx, key)
	if err != nil || b == nil {
		return nil, false
	}
	var blogs []domain.SimpleBlog
	if err := json.Unmarshal(b, &blogs); err != nil {
		c.log.Printf("%s: malformed cache entry: %v", key, err)
		return nil, false
	}
	return blogs, true
}

func (c *BlogCache) setList(ctx context.Context, key string, blogs []domain.SimpleBlog, ttl time.Duration) {
	b, err := json.Marshal(blogs)
	if err != nil {
		c.log.Printf("%s: marshal: %v", key, err)
		return
	}
	if err := c.kv.Set(ctx, key, b, ttl); err != nil {
		c.log.Printf("%s: cache set skipped: %v", key, err)
	}
}

func field(id int64) string { return strconv.FormatInt(id, 10) }
