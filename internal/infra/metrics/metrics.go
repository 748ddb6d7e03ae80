package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blog_cache_hits_total",
		Help: "Number of cache reads served from Redis.",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blog_cache_misses_total",
		Help: "Number of cache reads that fell through to Postgres.",
	})
	PageInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blog_page_cache_invalidations_total",
		Help: "Number of bulk listing-cache invalidations.",
	})
	ViewFlushRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_view_flush_rows_total",
		Help: "View-counter rows flushed to Postgres, by result.",
	}, []string{"result"})
)
