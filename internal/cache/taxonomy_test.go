package cache

import (
	"context"
	"testing"

	"github.com/shuyuzheng19/go-blog-api/internal/cache/cachetest"
	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

func TestCategoriesRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewTaxonomyCache(cachetest.New(), discard())

	if _, hit := c.Categories(ctx); hit {
		t.Fatal("expected miss")
	}
	c.SetCategories(ctx, []domain.Category{{ID: 1, Name: "go"}})
	list, hit := c.Categories(ctx)
	if !hit || len(list) != 1 || list[0].Name != "go" {
		t.Fatalf("categories = %+v hit=%v", list, hit)
	}
	c.InvalidateCategories(ctx)
	if _, hit := c.Categories(ctx); hit {
		t.Fatal("expected miss after invalidation")
	}
}

func TestTagNegativeEntry(t *testing.T) {
	ctx := context.Background()
	c := NewTaxonomyCache(cachetest.New(), discard())

	c.SetTag(ctx, 9, nil)
	tag, hit := c.Tag(ctx, 9)
	if !hit || tag != nil {
		t.Fatalf("tag = %v hit=%v, want cached negative", tag, hit)
	}
}

func TestInvalidateTagsDropsRandomPool(t *testing.T) {
	ctx := context.Background()
	c := NewTaxonomyCache(cachetest.New(), discard())

	c.SetTag(ctx, 1, &domain.Tag{ID: 1, Name: "go"})
	c.FillRandomTags(ctx, []domain.Tag{{ID: 1, Name: "go"}, {ID: 2, Name: "redis"}})

	if _, ok := c.RandomTags(ctx, 10); !ok {
		t.Fatal("expected random pool filled")
	}

	c.InvalidateTags(ctx)
	if _, hit := c.Tag(ctx, 1); hit {
		t.Fatal("tag map survived invalidation")
	}
	if _, ok := c.RandomTags(ctx, 10); ok {
		t.Fatal("random pool survived invalidation")
	}
}

func TestRandomTagsBounded(t *testing.T) {
	ctx := context.Background()
	c := NewTaxonomyCache(cachetest.New(), discard())

	tags := make([]domain.Tag, 0, 30)
	for i := range 30 {
		tags = append(tags, domain.Tag{ID: domain.TagID(i + 1), Name: "t"})
	}
	c.FillRandomTags(ctx, tags)

	got, ok := c.RandomTags(ctx, domain.RandomTagCount)
	if !ok {
		t.Fatal("expected hit")
	}
	if len(got) > domain.RandomTagCount {
		t.Fatalf("got %d tags, want at most %d", len(got), domain.RandomTagCount)
	}
}

func TestInvalidateTopicsDropsFirstPage(t *testing.T) {
	ctx := context.Background()
	c := NewTaxonomyCache(cachetest.New(), discard())

	c.SetTopic(ctx, 1, &domain.SimpleTopic{ID: 1, Name: "patterns"})
	c.SetFirstTopicPage(ctx, domain.PageInfo[domain.Topic]{Page: 1, Size: 20, Total: 1, Data: []domain.Topic{{ID: 1}}})

	c.InvalidateTopics(ctx)

	if _, hit := c.Topic(ctx, 1); hit {
		t.Fatal("topic map survived invalidation")
	}
	if _, hit := c.FirstTopicPage(ctx); hit {
		t.Fatal("first topic page survived invalidation")
	}
}
