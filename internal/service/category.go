package service

import (
	"context"
	"log"
	"strings"

	"github.com/shuyuzheng19/go-blog-api/internal/cache"
	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

type CategoryService struct {
	repo     domain.CategoryRepo
	taxonomy *cache.TaxonomyCache
	logger   *log.Logger
}

func NewCategoryService(repo domain.CategoryRepo, taxonomy *cache.TaxonomyCache, logger *log.Logger) *CategoryService {
	return &CategoryService{repo: repo, taxonomy: taxonomy, logger: logger}
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	if list, hit := s.taxonomy.Categories(ctx); hit {
		return list, nil
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Category{}
	}
	s.taxonomy.SetCategories(ctx, list)
	return list, nil
}

func (s *CategoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrBadParams
	}
	c, err := s.repo.Insert(ctx, name)
	if err != nil {
		return nil, err
	}
	s.taxonomy.InvalidateCategories(ctx)
	return c, nil
}
