package cache

import (
	"context"
	"io"
	"log"
	"strconv"
	"sync"
	"testing"

	"github.com/shuyuzheng19/go-blog-api/internal/cache/cachetest"
	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

func discard() *log.Logger { return log.New(io.Discard, "", 0) }

func TestBlogCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewBlogCache(cachetest.New(), discard())

	if _, hit := c.GetBlog(ctx, 1); hit {
		t.Fatal("expected miss on empty cache")
	}

	want := &domain.BlogContent{ID: 1, Title: "hello", EyeCount: 3}
	c.SetBlog(ctx, 1, want)

	got, hit := c.GetBlog(ctx, 1)
	if !hit {
		t.Fatal("expected hit after set")
	}
	if got.ID != want.ID || got.Title != want.Title || got.EyeCount != want.EyeCount {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	c.DeleteBlog(ctx, 1)
	if _, hit := c.GetBlog(ctx, 1); hit {
		t.Fatal("expected miss after delete")
	}
}

func TestBlogCacheNegativeEntry(t *testing.T) {
	ctx := context.Background()
	c := NewBlogCache(cachetest.New(), discard())

	c.SetBlog(ctx, 42, nil)

	got, hit := c.GetBlog(ctx, 42)
	if !hit {
		t.Fatal("expected hit for cached negative")
	}
	if got != nil {
		t.Fatalf("expected nil blog, got %+v", got)
	}
}

func TestBlogCacheFailOpen(t *testing.T) {
	ctx := context.Background()
	kv := cachetest.New()
	kv.FailAll = true
	c := NewBlogCache(kv, discard())

	// запись и чтение при лежащем кеше не должны ни паниковать, ни врать
	c.SetBlog(ctx, 1, &domain.BlogContent{ID: 1})
	if _, hit := c.GetBlog(ctx, 1); hit {
		t.Fatal("expected miss when kv is down")
	}
	if n := c.IncreaseView(ctx, 1, 100); n != 101 {
		t.Fatalf("fallback view count = %d, want 101", n)
	}
}

func TestIncreaseViewSeedsFromFallback(t *testing.T) {
	ctx := context.Background()
	c := NewBlogCache(cachetest.New(), discard())

	if n := c.IncreaseView(ctx, 7, 100); n != 101 {
		t.Fatalf("first view = %d, want 101", n)
	}
	// fallback больше не влияет: поле уже посеяно
	if n := c.IncreaseView(ctx, 7, 999); n != 102 {
		t.Fatalf("second view = %d, want 102", n)
	}
}

func TestIncreaseViewConcurrent(t *testing.T) {
	for _, n := range []int{2, 10, 100} {
		t.Run(strconv.Itoa(n)+"_workers", func(t *testing.T) {
			ctx := context.Background()
			c := NewBlogCache(cachetest.New(), discard())

			const base = 100
			var wg sync.WaitGroup
			for range n {
				wg.Add(1)
				go func() {
					defer wg.Done()
					c.IncreaseView(ctx, 5, base)
				}()
			}
			wg.Wait()

			got := c.IncreaseView(ctx, 5, base)
			if want := int64(base + n + 1); got != want {
				t.Fatalf("after %d concurrent views got %d, want %d", n, got, want)
			}
		})
	}
}

func TestDraftLifecycle(t *testing.T) {
	ctx := context.Background()
	c := NewBlogCache(cachetest.New(), discard())

	if _, ok := c.Draft(ctx, 1); ok {
		t.Fatal("expected no draft initially")
	}
	if err := c.SetDraft(ctx, 1, "# wip"); err != nil {
		t.Fatal(err)
	}
	got, ok := c.Draft(ctx, 1)
	if !ok || got != "# wip" {
		t.Fatalf("draft = %q ok=%v", got, ok)
	}
	c.DiscardDraft(ctx, 1)
	if _, ok := c.Draft(ctx, 1); ok {
		t.Fatal("expected draft gone after discard")
	}
}

func TestSimpleListsAndRecommend(t *testing.T) {
	ctx := context.Background()
	c := NewBlogCache(cachetest.New(), discard())

	if _, hit := c.HotBlogs(ctx); hit {
		t.Fatal("expected hot miss")
	}
	c.SetHotBlogs(ctx, []domain.SimpleBlog{{ID: 1, Title: "a"}})
	hot, hit := c.HotBlogs(ctx)
	if !hit || len(hot) != 1 || hot[0].Title != "a" {
		t.Fatalf("hot = %+v hit=%v", hot, hit)
	}

	c.SetLatestBlogs(ctx, []domain.SimpleBlog{{ID: 2, Title: "b"}})
	if _, hit := c.LatestBlogs(ctx); !hit {
		t.Fatal("expected latest hit")
	}
	c.ResetLatest(ctx)
	if _, hit := c.LatestBlogs(ctx); hit {
		t.Fatal("expected latest miss after reset")
	}

	if got := c.RecommendBlogs(ctx); len(got) != 0 {
		t.Fatalf("expected empty recommend, got %+v", got)
	}
	c.SetRecommendBlogs(ctx, []domain.RecommendBlog{{ID: 3, Title: "c"}})
	if got := c.RecommendBlogs(ctx); len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("recommend = %+v", got)
	}
}
