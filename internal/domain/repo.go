package domain

import (
	"context"
	"time"
)

// Фильтры листингов.

type BlogFilter struct {
	Page       int64
	Sort       SortMode
	CategoryID CategoryID // 0 — все категории
}

type ArchiveRange struct {
	Page  int64
	Start time.Time
	End   time.Time
}

type UserBlogFilter struct {
	Page int64
	Sort SortMode
}

// AdminBlogFilter — фильтр админского листинга блогов.
type AdminBlogFilter struct {
	Page       int64
	Keyword    string
	CategoryID CategoryID // 0 — любой
	TopicID    TopicID    // 0 — любой
	Sort       SortMode
}

// AdminFilter — фильтр админских листингов категорий/тегов/тем/файлов.
type AdminFilter struct {
	Page    int64
	Keyword string
	Deleted bool
}

// Входные данные мутаций.

type BlogInput struct {
	ID          BlogID     `json:"id"` // 0 при создании
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CoverImage  string     `json:"coverImage"`
	Content     string     `json:"content"`
	SourceURL   string     `json:"sourceUrl"`
	CategoryID  CategoryID `json:"category"` // 0 — без категории (пост темы)
	TopicID     TopicID    `json:"topic"`    // 0 — без темы
	TagIDs      []TagID    `json:"tags"`
}

type TopicInput struct {
	ID          TopicID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"desc"`
	CoverImage  string  `json:"cover"`
}

type RegisterInput struct {
	Username string
	NickName string
	Password string // уже захэширован
	Email    string
	Icon     string
}

// Порты реляционного хранилища. На «не нашли» читающие методы
// возвращают (nil, nil) / пустую страницу, а не ошибку.

type BlogRepo interface {
	PageByCategory(ctx context.Context, f BlogFilter) (PageInfo[BlogCard], error)
	HotBlogs(ctx context.Context) ([]SimpleBlog, error)
	LatestBlogs(ctx context.Context) ([]SimpleBlog, error)
	ArchiveByRange(ctx context.Context, r ArchiveRange) (PageInfo[ArchiveBlog], error)
	ByID(ctx context.Context, id BlogID) (*BlogContent, error)
	ByIDs(ctx context.Context, ids []BlogID) ([]RecommendBlog, error)
	UserBlogs(ctx context.Context, uid UserID, f UserBlogFilter) (PageInfo[BlogCard], error)
	UserTopBlogs(ctx context.Context, uid UserID) ([]SimpleBlog, error)
	Insert(ctx context.Context, in BlogInput, uid UserID) (BlogID, error)
	Update(ctx context.Context, in BlogInput, uid UserID) error
	EditInfo(ctx context.Context, id BlogID) (*BlogInput, error)
	AllSimple(ctx context.Context) ([]SearchBlog, error)
	UpdateEyeCount(ctx context.Context, id BlogID, count int64) error
}

type UserRepo interface {
	ByUsername(ctx context.Context, username string) (*User, error)
	Exists(ctx context.Context, username, email string) (bool, error)
	Insert(ctx context.Context, in RegisterInput) (UserID, error)
	UpdateRole(ctx context.Context, id UserID, role string) (string, error)
}

type CategoryRepo interface {
	List(ctx context.Context) ([]Category, error)
	Insert(ctx context.Context, name string) (*Category, error)
}

type TagRepo interface {
	List(ctx context.Context) ([]Tag, error)
	Insert(ctx context.Context, name string) (*Tag, error)
	ByID(ctx context.Context, id TagID) (*Tag, error)
	Blogs(ctx context.Context, page int64, id TagID) (PageInfo[BlogCard], error)
}

type TopicRepo interface {
	Page(ctx context.Context, page int64) (PageInfo[Topic], error)
	ByID(ctx context.Context, id TopicID) (*SimpleTopic, error)
	All(ctx context.Context) ([]SimpleTopic, error)
	UserTopics(ctx context.Context, uid UserID) ([]UserTopic, error)
	Blogs(ctx context.Context, page int64, id TopicID) (PageInfo[TopicBlog], error)
	AllBlogs(ctx context.Context, id TopicID) ([]SimpleBlog, error)
	Insert(ctx context.Context, uid UserID, in TopicInput) error
}

type FileRepo interface {
	Insert(ctx context.Context, f StoredFile) (FileID, error)
	FirstByMD5(ctx context.Context, md5 string) (*StoredFile, error)
	PagePublic(ctx context.Context, page int64, keyword string) (PageInfo[StoredFile], error)
	PageByUser(ctx context.Context, uid UserID, page int64, keyword string) (PageInfo[StoredFile], error)
	SetPublic(ctx context.Context, id FileID, public bool) error
}

// AdminRepo — массовые операции soft-delete и фильтрованные листинги.
type AdminRepo interface {
	BlogPage(ctx context.Context, f AdminBlogFilter, deleted bool, uid UserID) (PageInfo[AdminBlog], error)
	// SoftDelete проставляет/снимает deleted_at; uid < 0 — без проверки владельца.
	SoftDelete(ctx context.Context, table string, ids []int64, uid UserID, deleted bool) (int64, error)
	DeleteBlogsByCategories(ctx context.Context, ids []int64, deleted bool) error
	DeleteBlogsByTopics(ctx context.Context, ids []int64, deleted bool, uid UserID) error
	TaxonomyPage(ctx context.Context, table string, f AdminFilter) (PageInfo[AdminTaxonomy], error)
	TopicPage(ctx context.Context, f AdminFilter, uid UserID) (PageInfo[AdminTopic], error)
	FilePage(ctx context.Context, f AdminFilter) (PageInfo[StoredFile], error)
	UpdateName(ctx context.Context, table string, id int64, name string) (int64, error)
	UpdateTopic(ctx context.Context, in TopicInput, uid UserID) (int64, error)
	DeleteFiles(ctx context.Context, ids []int64) (int64, error)
}

// Pinger — health-проверка подключения.
type Pinger interface {
	Ping(ctx context.Context) error
}
