package service

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/shuyuzheng19/go-blog-api/internal/cache"
	"github.com/shuyuzheng19/go-blog-api/internal/cache/cachetest"
	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

func discard() *log.Logger { return log.New(io.Discard, "", 0) }

// blogRepoStub — ручной мок: считает обращения, неиспользуемые методы
// наследует от нулевого интерфейса.
type blogRepoStub struct {
	domain.BlogRepo
	byIDCalls int
	pageCalls int
	blog      *domain.BlogContent
	page      domain.PageInfo[domain.BlogCard]
}

func (s *blogRepoStub) ByID(_ context.Context, id domain.BlogID) (*domain.BlogContent, error) {
	s.byIDCalls++
	if s.blog != nil && s.blog.ID == id {
		cp := *s.blog
		return &cp, nil
	}
	return nil, nil
}

func (s *blogRepoStub) PageByCategory(_ context.Context, f domain.BlogFilter) (domain.PageInfo[domain.BlogCard], error) {
	s.pageCalls++
	return s.page, nil
}

func (s *blogRepoStub) Update(_ context.Context, in domain.BlogInput, uid domain.UserID) error {
	s.blog = &domain.BlogContent{ID: in.ID, Title: in.Title, Content: in.Content}
	return nil
}

type searchStub struct {
	saved []domain.SearchBlog
}

func (s *searchStub) SaveDocuments(_ context.Context, docs []domain.SearchBlog) error {
	s.saved = append(s.saved, docs...)
	return nil
}
func (s *searchStub) Rebuild(_ context.Context, docs []domain.SearchBlog) error {
	s.saved = docs
	return nil
}
func (s *searchStub) Search(_ context.Context, keyword string, page int64) (domain.PageInfo[domain.SearchBlog], error) {
	return domain.EmptyPage[domain.SearchBlog](), nil
}

func newBlogService(repo *blogRepoStub, kv *cachetest.MemKV) *BlogService {
	return NewBlogService(
		repo,
		cache.NewBlogCache(kv, discard()),
		cache.NewPageCache(kv, discard(), true, 6),
		&searchStub{},
		discard(),
	)
}

func TestGetBlogReadThrough(t *testing.T) {
	ctx := context.Background()
	repo := &blogRepoStub{blog: &domain.BlogContent{ID: 1, Title: "hello", EyeCount: 100}}
	svc := newBlogService(repo, cachetest.New())

	got, err := svc.GetBlog(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.EyeCount != 101 {
		t.Fatalf("first view count = %d, want 101", got.EyeCount)
	}
	if repo.byIDCalls != 1 {
		t.Fatalf("repo calls = %d, want 1", repo.byIDCalls)
	}

	// второе чтение — из кеша, БД не трогаем
	got, err = svc.GetBlog(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.EyeCount != 102 {
		t.Fatalf("second view count = %d, want 102", got.EyeCount)
	}
	if repo.byIDCalls != 1 {
		t.Fatalf("repo calls after cached read = %d, want 1", repo.byIDCalls)
	}
}

func TestGetBlogCachesNegative(t *testing.T) {
	ctx := context.Background()
	repo := &blogRepoStub{}
	svc := newBlogService(repo, cachetest.New())

	if _, err := svc.GetBlog(ctx, 7); err != domain.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetBlog(ctx, 7); err != domain.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	// повторный промах обслужен отрицательной записью
	if repo.byIDCalls != 1 {
		t.Fatalf("repo calls = %d, want 1", repo.byIDCalls)
	}
}

func TestPageCachedPerCombo(t *testing.T) {
	ctx := context.Background()
	repo := &blogRepoStub{page: domain.PageInfo[domain.BlogCard]{Page: 1, Size: 10, Total: 1, Data: []domain.BlogCard{{ID: 1}}}}
	svc := newBlogService(repo, cachetest.New())

	f := domain.BlogFilter{Page: 1, Sort: domain.SortByCreate}
	if _, err := svc.Page(ctx, f); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Page(ctx, f); err != nil {
		t.Fatal(err)
	}
	if repo.pageCalls != 1 {
		t.Fatalf("repo calls = %d, want 1", repo.pageCalls)
	}

	// другая комбинация — отдельный ключ, снова поход в БД
	f.CategoryID = 3
	if _, err := svc.Page(ctx, f); err != nil {
		t.Fatal(err)
	}
	if repo.pageCalls != 2 {
		t.Fatalf("repo calls = %d, want 2", repo.pageCalls)
	}
}

func TestUpdateInvalidatesCaches(t *testing.T) {
	ctx := context.Background()
	repo := &blogRepoStub{
		blog: &domain.BlogContent{ID: 1, Title: "old", EyeCount: 5},
		page: domain.PageInfo[domain.BlogCard]{Page: 1, Size: 10, Total: 1, Data: []domain.BlogCard{{ID: 1, Title: "old"}}},
	}
	svc := newBlogService(repo, cachetest.New())

	if _, err := svc.GetBlog(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Page(ctx, domain.BlogFilter{Page: 1}); err != nil {
		t.Fatal(err)
	}

	in := domain.BlogInput{ID: 1, Title: "new", Content: "body", CategoryID: 1}
	if err := svc.Update(ctx, 10, in); err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetBlog(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "new" {
		t.Fatalf("title after update = %q, want %q (stale cache?)", got.Title, "new")
	}
	if repo.byIDCalls != 2 {
		t.Fatalf("byID calls = %d, want 2 (re-read after invalidation)", repo.byIDCalls)
	}

	if _, err := svc.Page(ctx, domain.BlogFilter{Page: 1}); err != nil {
		t.Fatal(err)
	}
	if repo.pageCalls != 2 {
		t.Fatalf("page calls = %d, want 2 (listing re-read after invalidation)", repo.pageCalls)
	}
}

func TestSetRecommendRequiresExactCount(t *testing.T) {
	ctx := context.Background()
	svc := newBlogService(&blogRepoStub{}, cachetest.New())

	if err := svc.SetRecommend(ctx, []domain.BlogID{1, 2}); err != domain.ErrBadParams {
		t.Fatalf("err = %v, want ErrBadParams", err)
	}
}

func TestCreateRejectsOrphanBlog(t *testing.T) {
	ctx := context.Background()
	svc := newBlogService(&blogRepoStub{}, cachetest.New())

	// ни категории, ни темы
	_, err := svc.Create(ctx, 1, domain.BlogInput{Title: "t", Content: "c"})
	if err != domain.ErrBadParams {
		t.Fatalf("err = %v, want ErrBadParams", err)
	}
}
