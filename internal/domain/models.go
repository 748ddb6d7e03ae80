package domain

import "time"

// Идентификаторы сущностей — БД выдаёт последовательные id.
type (
	BlogID     = int64
	UserID     = int64
	CategoryID = int64
	TagID      = int64
	TopicID    = int64
	FileID     = int64
)

// Роли пользователей (users.role_id)
const (
	RoleUser       = "USER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// SimpleUser — минимальная проекция автора для выдачи.
type SimpleUser struct {
	ID       UserID `json:"id"`
	NickName string `json:"nickName"`
}

// User — профиль с учётными данными. Именно в таком виде он лежит в кеше
// (включая хэш пароля — наружу отдаём только PublicView).
type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	NickName string `json:"nickName"`
	Role     string `json:"role"`
	Icon     string `json:"icon"`
}

// PublicView — профиль без учётных данных.
func (u User) PublicView() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, NickName: u.NickName, Role: u.Role, Icon: u.Icon}
}

func (u User) IsAdmin() bool      { return u.Role == RoleAdmin || u.Role == RoleSuperAdmin }
func (u User) IsSuperAdmin() bool { return u.Role == RoleSuperAdmin }

type PublicUser struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
	NickName string `json:"nickName"`
	Role     string `json:"role"`
	Icon     string `json:"icon"`
}

// Category / Tag / SimpleTopic — справочники таксономии.
type Category struct {
	ID   CategoryID `json:"id"`
	Name string     `json:"name"`
}

type Tag struct {
	ID   TagID  `json:"id"`
	Name string `json:"name"`
}

type SimpleTopic struct {
	ID   TopicID `json:"id"`
	Name string  `json:"name"`
}

// Topic — карточка темы (подборки постов).
type Topic struct {
	ID          TopicID    `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CoverImage  string     `json:"cover"`
	User        SimpleUser `json:"user"`
	Timestamp   int64      `json:"timeStamp"`
}

// UserTopic — тема в списке «мои темы».
type UserTopic struct {
	ID          TopicID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CoverImage  string  `json:"cover"`
}

// BlogCard — элемент листинга.
type BlogCard struct {
	ID         BlogID     `json:"id"`
	Title      string     `json:"title"`
	Desc       string     `json:"desc"`
	CoverImage string     `json:"coverImage"`
	Timestamp  int64      `json:"timeStamp"`
	Category   Category   `json:"category"`
	User       SimpleUser `json:"user"`
}

// TopicBlog — элемент листинга внутри темы (без категории).
type TopicBlog struct {
	ID         BlogID     `json:"id"`
	Title      string     `json:"title"`
	Desc       string     `json:"desc"`
	CoverImage string     `json:"coverImage"`
	Timestamp  int64      `json:"timeStamp"`
	User       SimpleUser `json:"user"`
}

// SimpleBlog — для hot/latest блоков.
type SimpleBlog struct {
	ID    BlogID `json:"id"`
	Title string `json:"title"`
}

// RecommendBlog — элемент кураторской подборки.
type RecommendBlog struct {
	ID         BlogID `json:"id"`
	Title      string `json:"title"`
	CoverImage string `json:"coverImage"`
}

// SearchBlog — документ для полнотекстового индекса.
type SearchBlog struct {
	ID          BlogID `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ArchiveBlog — элемент архива по датам.
type ArchiveBlog struct {
	ID       BlogID    `json:"id"`
	Title    string    `json:"title"`
	Desc     string    `json:"desc"`
	CreateAt time.Time `json:"create"`
}

// BlogContent — полное содержимое поста (кешируется целиком).
type BlogContent struct {
	ID          BlogID       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	CoverImage  string       `json:"coverImage"`
	SourceURL   string       `json:"source_url"`
	Content     string       `json:"content"`
	EyeCount    int64        `json:"eyeCount"`
	LikeCount   int64        `json:"likeCount"`
	Category    *Category    `json:"category"`
	Topic       *SimpleTopic `json:"topic"`
	Tags        []Tag        `json:"tags"`
	User        SimpleUser   `json:"user"`
	CreateAt    time.Time    `json:"createTime"`
	UpdateAt    time.Time    `json:"updateTime"`
}

// AdminBlog — строка в админском листинге.
type AdminBlog struct {
	ID          BlogID       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	CoverImage  string       `json:"coverImage"`
	EyeCount    int64        `json:"eyeCount"`
	LikeCount   int64        `json:"likeCount"`
	Category    *Category    `json:"category"`
	Topic       *SimpleTopic `json:"topic"`
	CreateAt    time.Time    `json:"createAt"`
	Original    bool         `json:"original"`
	User        SimpleUser   `json:"user"`
}

// AdminTaxonomy — строка админского листинга категорий/тегов.
type AdminTaxonomy struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	CreateAt time.Time `json:"createAt"`
	UpdateAt time.Time `json:"updateAt"`
}

// AdminTopic — строка админского листинга тем.
type AdminTopic struct {
	ID          TopicID    `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CoverImage  string     `json:"coverImage"`
	CreateAt    time.Time  `json:"createAt"`
	UpdateAt    time.Time  `json:"updateAt"`
	User        SimpleUser `json:"user"`
}

// StoredFile — загруженный файл: контент в S3, мета в БД.
type StoredFile struct {
	ID       FileID    `json:"id"`
	UserID   UserID    `json:"uid"`
	OldName  string    `json:"name"`
	NewName  string    `json:"-"`
	Suffix   string    `json:"suffix"`
	Size     int64     `json:"size"`
	MD5      string    `json:"md5"`
	URL      string    `json:"url"`
	Public   bool      `json:"public"`
	CreateAt time.Time `json:"createAt"`
}

// PageInfo — универсальная страница листинга; сериализуется в кеш как есть.
type PageInfo[T any] struct {
	Page  int64 `json:"page"`
	Size  int64 `json:"size"`
	Total int64 `json:"total"`
	Data  []T   `json:"data"`
}

// EmptyPage — страница «ничего не нашли».
func EmptyPage[T any]() PageInfo[T] {
	return PageInfo[T]{Page: 1, Size: 10, Total: 0, Data: []T{}}
}

// WebsiteIcon / WebsiteConfig — настройки витрины, живут только в кеше.
type WebsiteIcon struct {
	Icon       string `json:"icon"`
	Title      string `json:"title"`
	ModalImage string `json:"modalImage"`
	Href       string `json:"href"`
	Modal      bool   `json:"modal"`
}

type WebsiteConfig struct {
	Name         string        `json:"name"`
	Avatar       string        `json:"avatar"`
	Icons        []WebsiteIcon `json:"icon"`
	MusicID      string        `json:"musicId"`
	Descriptions []string      `json:"descriptions"`
	Content      string        `json:"content"`
}

func DefaultWebsiteConfig() WebsiteConfig {
	return WebsiteConfig{
		Icons:        []WebsiteIcon{},
		Descriptions: []string{},
	}
}
