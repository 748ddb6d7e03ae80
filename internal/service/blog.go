// Package service — прикладная логика поверх портов домена.
// Читающие операции идут сквозь кеш, пишущие инвалидируют его.
package service

import (
	"context"
	"log"
	"strings"

	"github.com/shuyuzheng19/go-blog-api/internal/cache"
	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

type BlogService struct {
	repo   domain.BlogRepo
	blogs  *cache.BlogCache
	pages  *cache.PageCache
	search domain.SearchIndex
	logger *log.Logger
}

func NewBlogService(repo domain.BlogRepo, blogs *cache.BlogCache, pages *cache.PageCache, search domain.SearchIndex, logger *log.Logger) *BlogService {
	return &BlogService{repo: repo, blogs: blogs, pages: pages, search: search, logger: logger}
}

// GetBlog — деталь поста. Каждый просмотр увеличивает счётчик в кеше;
// в БД счётчик уедет ночным сливом.
func (s *BlogService) GetBlog(ctx context.Context, id domain.BlogID) (*domain.BlogContent, error) {
	if id <= 0 {
		return nil, domain.ErrBadParams
	}

	blog, hit := s.blogs.GetBlog(ctx, id)
	if hit && blog == nil {
		// закешированное «нет такого поста»
		return nil, domain.ErrNotFound
	}
	if !hit {
		var err error
		blog, err = s.repo.ByID(ctx, id)
		if err != nil {
			return nil, err
		}
		s.blogs.SetBlog(ctx, id, blog)
		if blog == nil {
			return nil, domain.ErrNotFound
		}
	}

	blog.EyeCount = s.blogs.IncreaseView(ctx, id, blog.EyeCount)
	return blog, nil
}

func (s *BlogService) Page(ctx context.Context, f domain.BlogFilter) (domain.PageInfo[domain.BlogCard], error) {
	f.Sort = f.Sort.Valid()
	if info, hit := s.pages.GetPage(ctx, f.Page, f.Sort, f.CategoryID); hit {
		return info, nil
	}
	info, err := s.repo.PageByCategory(ctx, f)
	if err != nil {
		return domain.EmptyPage[domain.BlogCard](), err
	}
	s.pages.SetPage(ctx, f.Page, f.Sort, f.CategoryID, info)
	return info, nil
}

func (s *BlogService) HotBlogs(ctx context.Context) ([]domain.SimpleBlog, error) {
	if blogs, hit := s.blogs.HotBlogs(ctx); hit {
		return blogs, nil
	}
	blogs, err := s.repo.HotBlogs(ctx)
	if err != nil {
		return nil, err
	}
	s.blogs.SetHotBlogs(ctx, blogs)
	return blogs, nil
}

func (s *BlogService) LatestBlogs(ctx context.Context) ([]domain.SimpleBlog, error) {
	if blogs, hit := s.blogs.LatestBlogs(ctx); hit {
		return blogs, nil
	}
	blogs, err := s.repo.LatestBlogs(ctx)
	if err != nil {
		return nil, err
	}
	s.blogs.SetLatestBlogs(ctx, blogs)
	return blogs, nil
}

func (s *BlogService) Archive(ctx context.Context, r domain.ArchiveRange) (domain.PageInfo[domain.ArchiveBlog], error) {
	if r.Start.After(r.End) {
		return domain.EmptyPage[domain.ArchiveBlog](), domain.ErrBadParams
	}
	return s.repo.ArchiveByRange(ctx, r)
}

func (s *BlogService) RecommendBlogs(ctx context.Context) []domain.RecommendBlog {
	return s.blogs.RecommendBlogs(ctx)
}

// SetRecommend — кураторская подборка, строго RecommendBlogCount постов.
func (s *BlogService) SetRecommend(ctx context.Context, ids []domain.BlogID) error {
	if len(ids) != domain.RecommendBlogCount {
		return domain.ErrBadParams
	}
	blogs, err := s.repo.ByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(blogs) != domain.RecommendBlogCount {
		return domain.ErrBadParams
	}
	s.blogs.SetRecommendBlogs(ctx, blogs)
	return nil
}

func (s *BlogService) Search(ctx context.Context, keyword string, page int64) (domain.PageInfo[domain.SearchBlog], error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return domain.EmptyPage[domain.SearchBlog](), domain.ErrBadParams
	}
	return s.search.Search(ctx, keyword, page)
}

func (s *BlogService) UserBlogs(ctx context.Context, uid domain.UserID, f domain.UserBlogFilter) (domain.PageInfo[domain.BlogCard], error) {
	f.Sort = f.Sort.Valid()
	return s.repo.UserBlogs(ctx, uid, f)
}

func (s *BlogService) UserTopBlogs(ctx context.Context, uid domain.UserID) ([]domain.SimpleBlog, error) {
	return s.repo.UserTopBlogs(ctx, uid)
}

func (s *BlogService) Create(ctx context.Context, uid domain.UserID, in domain.BlogInput) (domain.BlogID, error) {
	if err := validateBlogInput(in); err != nil {
		return 0, err
	}
	id, err := s.repo.Insert(ctx, in, uid)
	if err != nil {
		return 0, err
	}

	// новый пост меняет листинги и блок «свежее»
	s.pages.InvalidateAll(ctx)
	s.blogs.ResetLatest(ctx)
	s.indexBlog(ctx, id, in)
	return id, nil
}

func (s *BlogService) Update(ctx context.Context, uid domain.UserID, in domain.BlogInput) error {
	if in.ID <= 0 {
		return domain.ErrBadParams
	}
	if err := validateBlogInput(in); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, in, uid); err != nil {
		return err
	}

	// сперва БД, потом инвалидация: читатель после ошибки кеша
	// перечитает уже новое состояние
	s.blogs.DeleteBlog(ctx, in.ID)
	s.pages.InvalidateAll(ctx)
	s.indexBlog(ctx, in.ID, in)
	return nil
}

func (s *BlogService) EditInfo(ctx context.Context, id domain.BlogID) (*domain.BlogInput, error) {
	in, err := s.repo.EditInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, domain.ErrNotFound
	}
	return in, nil
}

func (s *BlogService) SaveDraft(ctx context.Context, uid domain.UserID, content string) error {
	if strings.TrimSpace(content) == "" {
		return domain.ErrBadParams
	}
	return s.blogs.SetDraft(ctx, uid, content)
}

func (s *BlogService) Draft(ctx context.Context, uid domain.UserID) (string, error) {
	content, ok := s.blogs.Draft(ctx, uid)
	if !ok {
		return "", domain.ErrNotFound
	}
	return content, nil
}

// ResetLatestCache сбрасывает кеш блока «свежее» вручную.
func (s *BlogService) ResetLatestCache(ctx context.Context) {
	s.blogs.ResetLatest(ctx)
}

// RebuildSearchIndex перезаливает индекс всеми живыми постами.
func (s *BlogService) RebuildSearchIndex(ctx context.Context) error {
	docs, err := s.repo.AllSimple(ctx)
	if err != nil {
		return err
	}
	return s.search.Rebuild(ctx, docs)
}

// indexBlog — best-effort: поиск не обязан быть консистентным с БД.
func (s *BlogService) indexBlog(ctx context.Context, id domain.BlogID, in domain.BlogInput) {
	doc := domain.SearchBlog{ID: id, Title: in.Title, Description: in.Description}
	if err := s.search.SaveDocuments(ctx, []domain.SearchBlog{doc}); err != nil {
		s.logger.Printf("index blog %d skipped: %v", id, err)
	}
}

func validateBlogInput(in domain.BlogInput) error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return domain.ErrBadParams
	}
	// пост обязан принадлежать либо категории, либо теме
	if in.CategoryID <= 0 && in.TopicID <= 0 {
		return domain.ErrBadParams
	}
	return nil
}
