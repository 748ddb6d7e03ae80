package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shuyuzheng19/go-blog-api/internal/cache/cachetest"
	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

type eyeWriterStub struct {
	mu     sync.Mutex
	counts map[domain.BlogID]int64
	calls  int
	failID domain.BlogID
}

func newEyeWriterStub() *eyeWriterStub {
	return &eyeWriterStub{counts: map[domain.BlogID]int64{}, failID: -1}
}

func (s *eyeWriterStub) UpdateEyeCount(_ context.Context, id domain.BlogID, count int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if id == s.failID {
		return errors.New("db unavailable")
	}
	s.counts[id] = count
	return nil
}

func TestFlushWritesCounters(t *testing.T) {
	ctx := context.Background()
	kv := cachetest.New()
	blogs := NewBlogCache(kv, discard())
	repo := newEyeWriterStub()
	f := NewViewFlusher(kv, repo, discard())

	blogs.IncreaseView(ctx, 1, 100)
	blogs.IncreaseView(ctx, 1, 100)
	blogs.IncreaseView(ctx, 2, 50)

	f.Flush(ctx)

	if got := repo.counts[1]; got != 102 {
		t.Fatalf("blog 1 flushed count = %d, want 102", got)
	}
	if got := repo.counts[2]; got != 51 {
		t.Fatalf("blog 2 flushed count = %d, want 51", got)
	}
}

func TestFlushIsIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := cachetest.New()
	blogs := NewBlogCache(kv, discard())
	repo := newEyeWriterStub()
	f := NewViewFlusher(kv, repo, discard())

	blogs.IncreaseView(ctx, 1, 10)
	f.Flush(ctx)

	calls := repo.calls
	f.Flush(ctx) // пустая карта — слива нет
	if repo.calls != calls {
		t.Fatalf("second flush wrote rows: calls %d -> %d", calls, repo.calls)
	}
}

func TestFlushPreservesFailedRows(t *testing.T) {
	ctx := context.Background()
	kv := cachetest.New()
	blogs := NewBlogCache(kv, discard())
	repo := newEyeWriterStub()
	repo.failID = 2
	f := NewViewFlusher(kv, repo, discard())

	blogs.IncreaseView(ctx, 1, 100)
	blogs.IncreaseView(ctx, 2, 200)

	f.Flush(ctx)

	if got := repo.counts[1]; got != 101 {
		t.Fatalf("blog 1 flushed count = %d, want 101", got)
	}
	if _, ok := repo.counts[2]; ok {
		t.Fatal("blog 2 must not be written")
	}

	// упавшая строка вернулась в живую карту: следующий слив её доберёт
	repo.failID = -1
	f.Flush(ctx)
	if got := repo.counts[2]; got != 201 {
		t.Fatalf("blog 2 retried count = %d, want 201", got)
	}
}

func TestFlushClearsBlogMap(t *testing.T) {
	ctx := context.Background()
	kv := cachetest.New()
	blogs := NewBlogCache(kv, discard())
	f := NewViewFlusher(kv, newEyeWriterStub(), discard())

	blogs.SetBlog(ctx, 1, &domain.BlogContent{ID: 1, EyeCount: 100})
	blogs.IncreaseView(ctx, 1, 100)

	f.Flush(ctx)

	// закешированная карточка несла устаревший EyeCount — после слива
	// она перечитывается из БД
	if _, hit := blogs.GetBlog(ctx, 1); hit {
		t.Fatal("expected blog map cleared after flush")
	}
}

func TestFlushKeepsIncrementsArrivingDuringDrain(t *testing.T) {
	ctx := context.Background()
	kv := cachetest.New()
	blogs := NewBlogCache(kv, discard())
	repo := newEyeWriterStub()
	f := NewViewFlusher(kv, repo, discard())

	blogs.IncreaseView(ctx, 1, 100)

	// инкремент «во время» слива: после rename живая карта пуста,
	// и HSetNX сеет её заново с fallback
	f.Flush(ctx)
	n := blogs.IncreaseView(ctx, 1, repo.counts[1])
	if n != 102 {
		t.Fatalf("post-flush view = %d, want 102", n)
	}

	f.Flush(ctx)
	if got := repo.counts[1]; got != 102 {
		t.Fatalf("second flush count = %d, want 102", got)
	}
}
