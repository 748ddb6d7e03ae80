package cache

import (
	"context"
	"testing"

	"github.com/shuyuzheng19/go-blog-api/internal/cache/cachetest"
	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

func onePage(title string) domain.PageInfo[domain.BlogCard] {
	return domain.PageInfo[domain.BlogCard]{
		Page: 1, Size: 10, Total: 1,
		Data: []domain.BlogCard{{ID: 1, Title: title}},
	}
}

func TestPageCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewPageCache(cachetest.New(), discard(), true, 6)

	if _, hit := c.GetPage(ctx, 1, domain.SortByCreate, 0); hit {
		t.Fatal("expected miss on empty cache")
	}
	c.SetPage(ctx, 1, domain.SortByCreate, 0, onePage("a"))
	got, hit := c.GetPage(ctx, 1, domain.SortByCreate, 0)
	if !hit || got.Data[0].Title != "a" {
		t.Fatalf("page = %+v hit=%v", got, hit)
	}
}

func TestPageCacheKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	c := NewPageCache(cachetest.New(), discard(), true, 6)

	c.SetPage(ctx, 1, domain.SortByCreate, 0, onePage("a"))
	if _, hit := c.GetPage(ctx, 2, domain.SortByCreate, 0); hit {
		t.Fatal("page 2 must not hit page 1 entry")
	}
	if _, hit := c.GetPage(ctx, 1, domain.SortByEye, 0); hit {
		t.Fatal("different sort must not hit")
	}
	if _, hit := c.GetPage(ctx, 1, domain.SortByCreate, 3); hit {
		t.Fatal("different category must not hit")
	}
}

func TestPageCacheInvalidateAll(t *testing.T) {
	ctx := context.Background()
	kv := cachetest.New()
	c := NewPageCache(kv, discard(), true, 6)

	c.SetPage(ctx, 1, domain.SortByCreate, 0, onePage("a"))
	c.SetPage(ctx, 2, domain.SortByEye, 0, onePage("b"))
	c.SetPage(ctx, 1, domain.SortByUpdate, 7, onePage("c"))
	// посторонний ключ инвалидация трогать не должна
	if err := kv.Set(ctx, domain.KeyHotBlog, []byte("[]"), 0); err != nil {
		t.Fatal(err)
	}

	c.InvalidateAll(ctx)

	if _, hit := c.GetPage(ctx, 1, domain.SortByCreate, 0); hit {
		t.Fatal("combo 1 survived invalidation")
	}
	if _, hit := c.GetPage(ctx, 2, domain.SortByEye, 0); hit {
		t.Fatal("combo 2 survived invalidation")
	}
	if _, hit := c.GetPage(ctx, 1, domain.SortByUpdate, 7); hit {
		t.Fatal("combo 3 survived invalidation")
	}
	if b, _ := kv.Get(ctx, domain.KeyHotBlog); b == nil {
		t.Fatal("unrelated key was deleted")
	}
}

func TestPageCacheDisabled(t *testing.T) {
	ctx := context.Background()
	kv := cachetest.New()
	c := NewPageCache(kv, discard(), false, 6)

	c.SetPage(ctx, 1, domain.SortByCreate, 0, onePage("a"))
	if _, hit := c.GetPage(ctx, 1, domain.SortByCreate, 0); hit {
		t.Fatal("disabled cache must never hit")
	}
	if keys := kv.Keys(); len(keys) != 0 {
		t.Fatalf("disabled cache wrote keys: %v", keys)
	}
}
