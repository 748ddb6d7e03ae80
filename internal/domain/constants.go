package domain

// Размеры страниц листингов.
const (
	BlogPageSize       int64 = 10
	HotBlogPageSize    int64 = 10
	ArchiveBlogSize    int64 = 15
	LatestBlogPageSize int64 = 10
	UserTopBlogSize    int64 = 10
	SearchBlogPageSize int64 = 10
	TopicPageSize      int64 = 20
	FilePageSize       int64 = 15

	AdminBlogPageSize     int64 = 10
	AdminTaxonomyPageSize int64 = 15
	AdminTopicPageSize    int64 = 15
	AdminFilePageSize     int64 = 15
)

// Количество тегов в случайной выборке.
const RandomTagCount = 20

// Размер кураторской подборки — строго 4.
const RecommendBlogCount = 4

// SortMode — режим сортировки листинга блогов.
type SortMode string

const (
	SortByCreate SortMode = "create"
	SortByEye    SortMode = "eye"
	SortByUpdate SortMode = "back"
)

// OrderBy разворачивает режим в ORDER BY c табличным префиксом.
func (s SortMode) OrderBy(prefix string) string {
	switch s {
	case SortByEye:
		return prefix + "eye_count DESC"
	case SortByUpdate:
		return prefix + "update_at DESC"
	default:
		return prefix + "create_at DESC"
	}
}

// Valid отбрасывает мусор из query-параметра.
func (s SortMode) Valid() SortMode {
	switch s {
	case SortByCreate, SortByEye, SortByUpdate:
		return s
	default:
		return SortByCreate
	}
}
