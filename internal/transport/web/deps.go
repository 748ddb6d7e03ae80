package web

import (
	"github.com/shuyuzheng19/go-blog-api/internal/cache"
	"github.com/shuyuzheng19/go-blog-api/internal/domain"
	"github.com/shuyuzheng19/go-blog-api/internal/service"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/mw"
)

// Services — прикладной слой, который раздаётся по хендлерам.
type Services struct {
	Blogs      *service.BlogService
	Users      *service.UserService
	Categories *service.CategoryService
	Tags       *service.TagService
	Topics     *service.TopicService
	Files      *service.FileService
	Admin      *service.AdminService
}

// Infra — здоровье и сервисные зависимости, не относящиеся к прикладному слою.
type Infra struct {
	DB      domain.Pinger
	Cache   domain.Pinger
	Flusher *cache.ViewFlusher
}

// AuthDeps — реэкспорт: сборщик приложения не обязан знать про пакет mw.
type AuthDeps = mw.AuthDeps
