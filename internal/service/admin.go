package service

import (
	"context"
	"log"
	"strings"

	"github.com/shuyuzheng19/go-blog-api/internal/cache"
	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

// AdminService — массовые операции над контентом. Супер-админ работает
// со всем содержимым, обычный админ — только со своим.
type AdminService struct {
	repo     domain.AdminRepo
	blogs    *cache.BlogCache
	pages    *cache.PageCache
	taxonomy *cache.TaxonomyCache
	users    *cache.UserCache
	logger   *log.Logger
}

func NewAdminService(
	repo domain.AdminRepo,
	blogs *cache.BlogCache,
	pages *cache.PageCache,
	taxonomy *cache.TaxonomyCache,
	users *cache.UserCache,
	logger *log.Logger,
) *AdminService {
	return &AdminService{repo: repo, blogs: blogs, pages: pages, taxonomy: taxonomy, users: users, logger: logger}
}

// scopeUID: -1 — без ограничения по владельцу.
func scopeUID(u domain.User) domain.UserID {
	if u.IsSuperAdmin() {
		return -1
	}
	return u.ID
}

func (s *AdminService) BlogPage(ctx context.Context, u domain.User, f domain.AdminBlogFilter, deleted bool) (domain.PageInfo[domain.AdminBlog], error) {
	return s.repo.BlogPage(ctx, f, deleted, scopeUID(u))
}

// DeleteBlogs помечает (или восстанавливает) посты и сбрасывает всё,
// что могло их отдавать: карту постов, листинги, hot/latest.
func (s *AdminService) DeleteBlogs(ctx context.Context, u domain.User, ids []int64, deleted bool) (int64, error) {
	n, err := s.repo.SoftDelete(ctx, "blogs", ids, scopeUID(u), deleted)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		s.blogs.DeleteBlog(ctx, id)
	}
	s.pages.InvalidateAll(ctx)
	s.blogs.ResetLatest(ctx)
	s.logger.Printf("admin %s: %d blogs deleted=%v", u.Username, n, deleted)
	return n, nil
}

func (s *AdminService) DeleteCategories(ctx context.Context, ids []int64, deleted bool) (int64, error) {
	n, err := s.repo.SoftDelete(ctx, "categories", ids, -1, deleted)
	if err != nil {
		return 0, err
	}
	// посты удалённой категории тоже уходят из выдачи
	if err := s.repo.DeleteBlogsByCategories(ctx, ids, deleted); err != nil {
		return n, err
	}
	s.taxonomy.InvalidateCategories(ctx)
	s.pages.InvalidateAll(ctx)
	return n, nil
}

func (s *AdminService) DeleteTags(ctx context.Context, ids []int64, deleted bool) (int64, error) {
	n, err := s.repo.SoftDelete(ctx, "tags", ids, -1, deleted)
	if err != nil {
		return 0, err
	}
	s.taxonomy.InvalidateTags(ctx)
	return n, nil
}

func (s *AdminService) DeleteTopics(ctx context.Context, u domain.User, ids []int64, deleted bool) (int64, error) {
	uid := scopeUID(u)
	n, err := s.repo.SoftDelete(ctx, "topics", ids, uid, deleted)
	if err != nil {
		return 0, err
	}
	if err := s.repo.DeleteBlogsByTopics(ctx, ids, deleted, uid); err != nil {
		return n, err
	}
	s.taxonomy.InvalidateTopics(ctx)
	s.pages.InvalidateAll(ctx)
	return n, nil
}

func (s *AdminService) CategoryPage(ctx context.Context, f domain.AdminFilter) (domain.PageInfo[domain.AdminTaxonomy], error) {
	return s.repo.TaxonomyPage(ctx, "categories", f)
}

func (s *AdminService) TagPage(ctx context.Context, f domain.AdminFilter) (domain.PageInfo[domain.AdminTaxonomy], error) {
	return s.repo.TaxonomyPage(ctx, "tags", f)
}

func (s *AdminService) TopicPage(ctx context.Context, u domain.User, f domain.AdminFilter) (domain.PageInfo[domain.AdminTopic], error) {
	return s.repo.TopicPage(ctx, f, scopeUID(u))
}

func (s *AdminService) FilePage(ctx context.Context, f domain.AdminFilter) (domain.PageInfo[domain.StoredFile], error) {
	return s.repo.FilePage(ctx, f)
}

func (s *AdminService) UpdateCategoryName(ctx context.Context, id int64, name string) error {
	if err := s.updateName(ctx, "categories", id, name); err != nil {
		return err
	}
	s.taxonomy.InvalidateCategories(ctx)
	return nil
}

func (s *AdminService) UpdateTagName(ctx context.Context, id int64, name string) error {
	if err := s.updateName(ctx, "tags", id, name); err != nil {
		return err
	}
	s.taxonomy.InvalidateTags(ctx)
	return nil
}

func (s *AdminService) updateName(ctx context.Context, table string, id int64, name string) error {
	name = strings.TrimSpace(name)
	if id <= 0 || name == "" {
		return domain.ErrBadParams
	}
	n, err := s.repo.UpdateName(ctx, table, id, name)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *AdminService) UpdateTopic(ctx context.Context, u domain.User, in domain.TopicInput) error {
	if in.ID <= 0 || strings.TrimSpace(in.Name) == "" {
		return domain.ErrBadParams
	}
	n, err := s.repo.UpdateTopic(ctx, in, scopeUID(u))
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	s.taxonomy.InvalidateTopics(ctx)
	return nil
}

func (s *AdminService) DeleteFiles(ctx context.Context, ids []int64) (int64, error) {
	return s.repo.DeleteFiles(ctx, ids)
}

func (s *AdminService) WebsiteConfig(ctx context.Context) domain.WebsiteConfig {
	return s.users.WebsiteConfig(ctx)
}

func (s *AdminService) SetWebsiteConfig(ctx context.Context, cfg domain.WebsiteConfig) error {
	return s.users.SetWebsiteConfig(ctx, cfg)
}
