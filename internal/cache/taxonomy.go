package cache

import (
	"context"
	"log"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

// TaxonomyCache — справочники: список категорий, карты тегов/тем по id,
// пул случайных тегов и первая страница тем. Справочники меняются редко,
// поэтому при любом изменении сбрасываем их целиком.
type TaxonomyCache struct {
	kv  domain.KV
	log *log.Logger
}

func NewTaxonomyCache(kv domain.KV, logger *log.Logger) *TaxonomyCache {
	return &TaxonomyCache{kv: kv, log: logger}
}

func (c *TaxonomyCache) Categories(ctx context.Context) ([]domain.Category, bool) {
	b, err := c.kv.Get(ctx, domain.KeyCategoryList)
	if err != nil || b == nil {
		return nil, false
	}
	var list []domain.Category
	if err := json.Unmarshal(b, &list); err != nil {
		c.log.Printf("categories: malformed cache entry: %v", err)
		return nil, false
	}
	return list, true
}

func (c *TaxonomyCache) SetCategories(ctx context.Context, list []domain.Category) {
	b, err := json.Marshal(list)
	if err != nil {
		c.log.Printf("categories: marshal: %v", err)
		return
	}
	if err := c.kv.Set(ctx, domain.KeyCategoryList, b, 0); err != nil {
		c.log.Printf("categories: cache set skipped: %v", err)
	}
}

func (c *TaxonomyCache) InvalidateCategories(ctx context.Context) {
	if err := c.kv.Del(ctx, domain.KeyCategoryList); err != nil {
		c.log.Printf("categories: invalidate failed: %v", err)
	}
}

// Tag возвращает (tag, hit); отрицательные записи — как у постов.
func (c *TaxonomyCache) Tag(ctx context.Context, id domain.TagID) (*domain.Tag, bool) {
	b, err := c.kv.HGet(ctx, domain.KeyTagMap, field(id))
	if err != nil || b == nil {
		return nil, false
	}
	if isNegative(b) {
		return nil, true
	}
	var tag domain.Tag
	if err := json.Unmarshal(b, &tag); err != nil {
		c.log.Printf("tag %d: malformed cache entry: %v", id, err)
		return nil, false
	}
	return &tag, true
}

func (c *TaxonomyCache) SetTag(ctx context.Context, id domain.TagID, tag *domain.Tag) {
	payload := negative
	if tag != nil {
		b, err := json.Marshal(tag)
		if err != nil {
			c.log.Printf("tag %d: marshal: %v", id, err)
			return
		}
		payload = b
	}
	if err := c.kv.HSet(ctx, domain.KeyTagMap, field(id), payload); err != nil {
		c.log.Printf("tag %d: cache set skipped: %v", id, err)
	}
}

func (c *TaxonomyCache) Topic(ctx context.Context, id domain.TopicID) (*domain.SimpleTopic, bool) {
	b, err := c.kv.HGet(ctx, domain.KeyTopicMap, field(id))
	if err != nil || b == nil {
		return nil, false
	}
	if isNegative(b) {
		return nil, true
	}
	var topic domain.SimpleTopic
	if err := json.Unmarshal(b, &topic); err != nil {
		c.log.Printf("topic %d: malformed cache entry: %v", id, err)
		return nil, false
	}
	return &topic, true
}

func (c *TaxonomyCache) SetTopic(ctx context.Context, id domain.TopicID, topic *domain.SimpleTopic) {
	payload := negative
	if topic != nil {
		b, err := json.Marshal(topic)
		if err != nil {
			c.log.Printf("topic %d: marshal: %v", id, err)
			return
		}
		payload = b
	}
	if err := c.kv.HSet(ctx, domain.KeyTopicMap, field(id), payload); err != nil {
		c.log.Printf("topic %d: cache set skipped: %v", id, err)
	}
}

// InvalidateTags / InvalidateTopics — вся карта целиком плюс зависимые ключи.
func (c *TaxonomyCache) InvalidateTags(ctx context.Context) {
	if err := c.kv.Del(ctx, domain.KeyTagMap, domain.KeyRandomTag); err != nil {
		c.log.Printf("tags: invalidate failed: %v", err)
	}
}

func (c *TaxonomyCache) InvalidateTopics(ctx context.Context) {
	if err := c.kv.Del(ctx, domain.KeyTopicMap, domain.KeyFirstTopic); err != nil {
		c.log.Printf("topics: invalidate failed: %v", err)
	}
}

// RandomTags достаёт count случайных тегов из пула. Пул наполняет
// FillRandomTags при промахе.
func (c *TaxonomyCache) RandomTags(ctx context.Context, count int64) ([]domain.Tag, bool) {
	members, err := c.kv.SRandMemberN(ctx, domain.KeyRandomTag, count)
	if err != nil {
		c.log.Printf("random tags: read failed: %v", err)
		return nil, false
	}
	if len(members) == 0 {
		return nil, false
	}
	tags := make([]domain.Tag, 0, len(members))
	for _, m := range members {
		var tag domain.Tag
		if err := json.Unmarshal([]byte(m), &tag); err != nil {
			c.log.Printf("random tags: malformed member: %v", err)
			continue
		}
		tags = append(tags, tag)
	}
	return tags, len(tags) > 0
}

func (c *TaxonomyCache) FillRandomTags(ctx context.Context, tags []domain.Tag) {
	if len(tags) == 0 {
		return
	}
	members := make([]string, 0, len(tags))
	for _, tag := range tags {
		b, err := json.Marshal(tag)
		if err != nil {
			c.log.Printf("random tags: marshal %d: %v", tag.ID, err)
			continue
		}
		members = append(members, string(b))
	}
	if err := c.kv.SAdd(ctx, domain.KeyRandomTag, members...); err != nil {
		c.log.Printf("random tags: fill failed: %v", err)
	}
}

// FirstTopicPage — первая страница тем, самый ходовой листинг раздела.
func (c *TaxonomyCache) FirstTopicPage(ctx context.Context) (domain.PageInfo[domain.Topic], bool) {
	b, err := c.kv.Get(ctx, domain.KeyFirstTopic)
	if err != nil || b == nil {
		return domain.PageInfo[domain.Topic]{}, false
	}
	var info domain.PageInfo[domain.Topic]
	if err := json.Unmarshal(b, &info); err != nil {
		c.log.Printf("first topic page: malformed cache entry: %v", err)
		return domain.PageInfo[domain.Topic]{}, false
	}
	return info, true
}

func (c *TaxonomyCache) SetFirstTopicPage(ctx context.Context, info domain.PageInfo[domain.Topic]) {
	b, err := json.Marshal(info)
	if err != nil {
		c.log.Printf("first topic page: marshal: %v", err)
		return
	}
	if err := c.kv.Set(ctx, domain.KeyFirstTopic, b, domain.TTLFirstTopic); err != nil {
		c.log.Printf("first topic page: cache set skipped: %v", err)
	}
}
