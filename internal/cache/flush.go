package cache

import (
	"context"
	"log"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
	"github.com/shuyuzheng19/go-blog-api/internal/infra/metrics"
)

const (
	flushDrainKey = domain.KeyEyeCountMap + ":draining"
	flushWorkers  = 8
)

// EyeCountWriter — минимум, который нужен flusher'у от репозитория постов.
type EyeCountWriter interface {
	UpdateEyeCount(ctx context.Context, id domain.BlogID, count int64) error
}

// ViewFlusher раз в сутки сливает накопленные счётчики просмотров в БД.
// Живая карта атомарно переименовывается в drain-ключ, так что
// конкурентные инкременты во время слива ложатся уже в свежую карту
// и не теряются.
type ViewFlusher struct {
	kv    domain.KV
	blogs EyeCountWriter
	log   *log.Logger
}

func NewViewFlusher(kv domain.KV, blogs EyeCountWriter, logger *log.Logger) *ViewFlusher {
	return &ViewFlusher{kv: kv, blogs: blogs, log: logger}
}

// Run блокируется до отмены ctx: первый слив в ближайшую полночь,
// дальше каждые сутки.
func (f *ViewFlusher) Run(ctx context.Context) {
	timer := time.NewTimer(untilMidnight(time.Now()))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}
	f.Flush(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.Flush(ctx)
		}
	}
}

// Flush переносит счётчики из кеша в БД. Идемпотентен: повторный вызов
// без новых инкрементов — no-op. Строки, которые не удалось записать,
// возвращаются в живую карту через HSetNX, чтобы не затереть инкременты,
// пришедшие за время слива.
func (f *ViewFlusher) Flush(ctx context.Context) {
	renamed, err := f.kv.Rename(ctx, domain.KeyEyeCountMap, flushDrainKey)
	if err != nil {
		f.log.Printf("view flush: rename failed: %v", err)
		return
	}
	if !renamed {
		// пустая карта — нечего сливать
		return
	}

	entries, err := f.kv.HGetAll(ctx, flushDrainKey)
	if err != nil {
		f.log.Printf("view flush: read drain map failed: %v", err)
		return
	}

	var (
		g, gctx = errgroup.WithContext(ctx)
		ok      = 0
		failed  = 0
		done    = make(chan result, len(entries))
	)
	g.SetLimit(flushWorkers)
	for fieldStr, val := range entries {
		g.Go(func() error {
			id, perr := strconv.ParseInt(fieldStr, 10, 64)
			if perr != nil {
				f.log.Printf("view flush: bad field %q: %v", fieldStr, perr)
				done <- result{field: fieldStr, ok: true} // мусор не ретраим
				return nil
			}
			count, perr := strconv.ParseInt(val, 10, 64)
			if perr != nil {
				f.log.Printf("view flush: bad count for blog %d: %v", id, perr)
				done <- result{field: fieldStr, ok: true}
				return nil
			}
			if uerr := f.blogs.UpdateEyeCount(gctx, id, count); uerr != nil {
				f.log.Printf("view flush: blog %d: %v", id, uerr)
				done <- result{field: fieldStr, val: val, ok: false}
				return nil
			}
			done <- result{field: fieldStr, ok: true}
			return nil
		})
	}
	_ = g.Wait()
	close(done)

	for r := range done {
		if r.ok {
			ok++
			continue
		}
		failed++
		// HSetNX: если за время слива по посту уже насеялось заново,
		// свежее значение главнее
		if _, serr := f.kv.HSetNX(ctx, domain.KeyEyeCountMap, r.field, []byte(r.val)); serr != nil {
			f.log.Printf("view flush: restore blog %s failed: %v", r.field, serr)
		}
	}

	if err := f.kv.Del(ctx, flushDrainKey, domain.KeyBlogMap); err != nil {
		f.log.Printf("view flush: cleanup failed: %v", err)
	}

	metrics.ViewFlushRows.WithLabelValues("ok").Add(float64(ok))
	metrics.ViewFlushRows.WithLabelValues("failed").Add(float64(failed))
	f.log.Printf("view flush: %d rows written, %d preserved for retry", ok, failed)
}

type result struct {
	field string
	val   string
	ok    bool
}

func untilMidnight(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return next.Sub(now)
}
