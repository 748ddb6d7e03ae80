package cache

import (
	"context"
	"log"
	"time"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
	"github.com/shuyuzheng19/go-blog-api/internal/infra/metrics"
)

// PageCache — кеш страниц листинга. Ключ составной (страница, сортировка,
// категория), поэтому любой апдейт поста инвалидирует все комбинации
// разом по префиксу.
type PageCache struct {
	kv      domain.KV
	log     *log.Logger
	enabled bool
	ttl     time.Duration
}

func NewPageCache(kv domain.KV, logger *log.Logger, enabled bool, ttlHours int) *PageCache {
	if ttlHours <= 0 {
		ttlHours = 6
	}
	return &PageCache{
		kv:      kv,
		log:     logger,
		enabled: enabled,
		ttl:     time.Duration(ttlHours) * time.Hour,
	}
}

func (c *PageCache) Enabled() bool { return c.enabled }

func (c *PageCache) GetPage(ctx context.Context, page int64, sort domain.SortMode, cid domain.CategoryID) (domain.PageInfo[domain.BlogCard], bool) {
	if !c.enabled {
		return domain.PageInfo[domain.BlogCard]{}, false
	}
	b, err := c.kv.Get(ctx, domain.CacheKeyBlogPage(page, sort, cid))
	if err != nil || b == nil {
		return domain.PageInfo[domain.BlogCard]{}, false
	}
	var info domain.PageInfo[domain.BlogCard]
	if err := json.Unmarshal(b, &info); err != nil {
		c.log.Printf("page cache: malformed entry: %v", err)
		return domain.PageInfo[domain.BlogCard]{}, false
	}
	return info, true
}

func (c *PageCache) SetPage(ctx context.Context, page int64, sort domain.SortMode, cid domain.CategoryID, info domain.PageInfo[domain.BlogCard]) {
	if !c.enabled {
		return
	}
	b, err := json.Marshal(info)
	if err != nil {
		c.log.Printf("page cache: marshal: %v", err)
		return
	}
	if err := c.kv.Set(ctx, domain.CacheKeyBlogPage(page, sort, cid), b, c.ttl); err != nil {
		c.log.Printf("page cache: set skipped: %v", err)
	}
}

// InvalidateAll сбрасывает все закешированные страницы. Дёргается после
// любой записи, меняющей состав листинга; точечно инвалидировать
// составной ключ нельзя.
func (c *PageCache) InvalidateAll(ctx context.Context) {
	keys, err := c.kv.ScanKeys(ctx, domain.CacheKeyBlogPagePrefix())
	if err != nil {
		c.log.Printf("page cache: scan failed: %v", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.kv.Del(ctx, keys...); err != nil {
		c.log.Printf("page cache: invalidate failed: %v", err)
		return
	}
	metrics.PageInvalidations.Add(float64(len(keys)))
}
