package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/shuyuzheng19/go-blog-api/internal/config"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1/admin"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1/blog"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1/category"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1/file"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1/health"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1/tag"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1/topic"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1/user"
)

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(logger *log.Logger, cfg *config.Config, svc Services, auth AuthDeps, infra Infra) *Server {
	sub := func(name string) *log.Logger {
		return log.New(logger.Writer(), logger.Prefix()+"["+name+"] ", logger.Flags())
	}

	h := handlers{
		health:   &health.Handler{Log: sub("health"), DB: infra.DB, Cache: infra.Cache},
		blog:     &blog.Handler{Log: sub("blog"), Blogs: svc.Blogs},
		user:     &user.Handler{Log: sub("user"), Users: svc.Users},
		category: &category.Handler{Log: sub("category"), Categories: svc.Categories},
		tag:      &tag.Handler{Log: sub("tag"), Tags: svc.Tags},
		topic:    &topic.Handler{Log: sub("topic"), Topics: svc.Topics},
		file:     &file.Handler{Log: sub("file"), Files: svc.Files},
		admin: &admin.Handler{
			Log:     sub("admin"),
			Admin:   svc.Admin,
			Blogs:   svc.Blogs,
			Users:   svc.Users,
			Files:   svc.Files,
			Flusher: infra.Flusher,
		},
	}

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           newRouter(h, auth, logger),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func (ws *Server) Run() {
	ws.log.Printf("started on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ws.log.Fatalf("error: %v", err)
	}
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Printf("forced to shutdown: %v", err)
	}
	ws.log.Println("exited gracefully")
}
