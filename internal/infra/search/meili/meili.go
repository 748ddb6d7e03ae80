// Package meili — клиент полнотекстового поиска по постам.
package meili

import (
	"context"
	"log"

	"github.com/meilisearch/meilisearch-go"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

type Config struct {
	Host   string
	APIKey string
	Index  string
}

type Index struct {
	idx    meilisearch.IndexManager
	logger *log.Logger
}

func New(cfg Config, logger *log.Logger) *Index {
	cl := meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))
	return &Index{idx: cl.Index(cfg.Index), logger: logger}
}

var _ domain.SearchIndex = (*Index)(nil)

func (s *Index) SaveDocuments(_ context.Context, docs []domain.SearchBlog) error {
	if len(docs) == 0 {
		return nil
	}
	task, err := s.idx.AddDocuments(docs, "id")
	if err != nil {
		s.logger.Printf("add documents failed: %v", err)
		return err
	}
	s.logger.Printf("add documents queued: task=%d count=%d", task.TaskUID, len(docs))
	return nil
}

// Rebuild сбрасывает индекс и заливает его заново — после массовых
// правок в БД, когда инкрементальные апдейты уже не догнать.
func (s *Index) Rebuild(ctx context.Context, docs []domain.SearchBlog) error {
	if _, err := s.idx.DeleteAllDocuments(); err != nil {
		s.logger.Printf("delete all documents failed: %v", err)
		return err
	}
	return s.SaveDocuments(ctx, docs)
}

func (s *Index) Search(_ context.Context, keyword string, page int64) (domain.PageInfo[domain.SearchBlog], error) {
	if page < 1 {
		page = 1
	}
	res, err := s.idx.Search(keyword, &meilisearch.SearchRequest{
		Limit:                 domain.SearchBlogPageSize,
		Offset:                (page - 1) * domain.SearchBlogPageSize,
		AttributesToHighlight: []string{"title", "description"},
		HighlightPreTag:       `<b style="color:red">`,
		HighlightPostTag:      "</b>",
	})
	if err != nil {
		s.logger.Printf("search %q failed: %v", keyword, err)
		return domain.EmptyPage[domain.SearchBlog](), err
	}

	hits := make([]domain.SearchBlog, 0, len(res.Hits))
	for _, h := range res.Hits {
		m, ok := h.(map[string]any)
		if !ok {
			continue
		}
		// при включённой подсветке отдаём _formatted-версию полей
		if f, ok := m["_formatted"].(map[string]any); ok {
			m = f
		}
		var doc domain.SearchBlog
		doc.ID = toInt64(m["id"])
		doc.Title, _ = m["title"].(string)
		doc.Description, _ = m["description"].(string)
		hits = append(hits, doc)
	}

	return domain.PageInfo[domain.SearchBlog]{
		Page:  page,
		Size:  domain.SearchBlogPageSize,
		Total: res.EstimatedTotalHits,
		Data:  hits,
	}, nil
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case string:
		// _formatted отдаёт id строкой
		var id int64
		for _, c := range n {
			if c < '0' || c > '9' {
				return 0
			}
			id = id*10 + int64(c-'0')
		}
		return id
	default:
		return 0
	}
}
