package service

import (
	"context"
	"log"
	"strings"

	"github.com/shuyuzheng19/go-blog-api/internal/cache"
	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

type TopicService struct {
	repo     domain.TopicRepo
	taxonomy *cache.TaxonomyCache
	logger   *log.Logger
}

func NewTopicService(repo domain.TopicRepo, taxonomy *cache.TaxonomyCache, logger *log.Logger) *TopicService {
	return &TopicService{repo: repo, taxonomy: taxonomy, logger: logger}
}

// Page — первая страница самая ходовая, только её и кешируем.
func (s *TopicService) Page(ctx context.Context, page int64) (domain.PageInfo[domain.Topic], error) {
	if page <= 1 {
		if info, hit := s.taxonomy.FirstTopicPage(ctx); hit {
			return info, nil
		}
		info, err := s.repo.Page(ctx, 1)
		if err != nil {
			return domain.EmptyPage[domain.Topic](), err
		}
		s.taxonomy.SetFirstTopicPage(ctx, info)
		return info, nil
	}
	return s.repo.Page(ctx, page)
}

func (s *TopicService) Get(ctx context.Context, id domain.TopicID) (*domain.SimpleTopic, error) {
	if id <= 0 {
		return nil, domain.ErrBadParams
	}
	if topic, hit := s.taxonomy.Topic(ctx, id); hit {
		if topic == nil {
			return nil, domain.ErrNotFound
		}
		return topic, nil
	}
	topic, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.taxonomy.SetTopic(ctx, id, topic)
	if topic == nil {
		return nil, domain.ErrNotFound
	}
	return topic, nil
}

func (s *TopicService) All(ctx context.Context) ([]domain.SimpleTopic, error) {
	return s.repo.All(ctx)
}

func (s *TopicService) UserTopics(ctx context.Context, uid domain.UserID) ([]domain.UserTopic, error) {
	return s.repo.UserTopics(ctx, uid)
}

func (s *TopicService) Blogs(ctx context.Context, page int64, id domain.TopicID) (domain.PageInfo[domain.TopicBlog], error) {
	if id <= 0 {
		return domain.EmptyPage[domain.TopicBlog](), domain.ErrBadParams
	}
	return s.repo.Blogs(ctx, page, id)
}

func (s *TopicService) AllBlogs(ctx context.Context, id domain.TopicID) ([]domain.SimpleBlog, error) {
	if id <= 0 {
		return nil, domain.ErrBadParams
	}
	return s.repo.AllBlogs(ctx, id)
}

func (s *TopicService) Create(ctx context.Context, uid domain.UserID, in domain.TopicInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.ErrBadParams
	}
	if err := s.repo.Insert(ctx, uid, in); err != nil {
		return err
	}
	s.taxonomy.InvalidateTopics(ctx)
	return nil
}
