package service

import (
	"context"
	"log"
	"strings"

	"github.com/shuyuzheng19/go-blog-api/internal/cache"
	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

type TagService struct {
	repo     domain.TagRepo
	taxonomy *cache.TaxonomyCache
	logger   *log.Logger
}

func NewTagService(repo domain.TagRepo, taxonomy *cache.TaxonomyCache, logger *log.Logger) *TagService {
	return &TagService{repo: repo, taxonomy: taxonomy, logger: logger}
}

// RandomTags — случайная выборка для облака тегов. Пул в кеше
// наполняется при первом промахе всем списком из БД.
func (s *TagService) RandomTags(ctx context.Context) ([]domain.Tag, error) {
	if tags, hit := s.taxonomy.RandomTags(ctx, domain.RandomTagCount); hit {
		return tags, nil
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.taxonomy.FillRandomTags(ctx, all)
	if int64(len(all)) > domain.RandomTagCount {
		all = all[:domain.RandomTagCount]
	}
	return all, nil
}

func (s *TagService) List(ctx context.Context) ([]domain.Tag, error) {
	return s.repo.List(ctx)
}

func (s *TagService) Get(ctx context.Context, id domain.TagID) (*domain.Tag, error) {
	if id <= 0 {
		return nil, domain.ErrBadParams
	}
	if tag, hit := s.taxonomy.Tag(ctx, id); hit {
		if tag == nil {
			return nil, domain.ErrNotFound
		}
		return tag, nil
	}
	tag, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.taxonomy.SetTag(ctx, id, tag)
	if tag == nil {
		return nil, domain.ErrNotFound
	}
	return tag, nil
}

func (s *TagService) Blogs(ctx context.Context, page int64, id domain.TagID) (domain.PageInfo[domain.BlogCard], error) {
	if id <= 0 {
		return domain.EmptyPage[domain.BlogCard](), domain.ErrBadParams
	}
	return s.repo.Blogs(ctx, page, id)
}

func (s *TagService) Create(ctx context.Context, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrBadParams
	}
	t, err := s.repo.Insert(ctx, name)
	if err != nil {
		return nil, err
	}
	s.taxonomy.InvalidateTags(ctx)
	return t, nil
}
