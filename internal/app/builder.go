// Package app собирает приложение: конфиг, инфраструктуру, кеши,
// сервисы и веб-сервер.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shuyuzheng19/go-blog-api/internal/auth/password"
	"github.com/shuyuzheng19/go-blog-api/internal/auth/token"
	"github.com/shuyuzheng19/go-blog-api/internal/cache"
	"github.com/shuyuzheng19/go-blog-api/internal/config"
	redisx "github.com/shuyuzheng19/go-blog-api/internal/infra/cache/redis"
	"github.com/shuyuzheng19/go-blog-api/internal/infra/database/postgres"
	"github.com/shuyuzheng19/go-blog-api/internal/infra/mail"
	"github.com/shuyuzheng19/go-blog-api/internal/infra/search/meili"
	s3storage "github.com/shuyuzheng19/go-blog-api/internal/infra/storage/s3"
	"github.com/shuyuzheng19/go-blog-api/internal/service"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web"
)

type App struct {
	config  *config.Config
	server  *web.Server
	log     *log.Logger
	repo    *postgres.PGRepo
	cache   *redisx.Cache
	flusher *cache.ViewFlusher
}

func Build(ctx context.Context) (*App, error) {
	base := log.New(os.Stdout, "[app] ", log.LstdFlags)

	serverLog := log.New(base.Writer(), base.Prefix()+"[server] ", base.Flags())
	pgLog := log.New(base.Writer(), base.Prefix()+"[postgres] ", base.Flags())
	redisLog := log.New(base.Writer(), base.Prefix()+"[redis] ", base.Flags())
	cacheLog := log.New(base.Writer(), base.Prefix()+"[cache] ", base.Flags())
	meiliLog := log.New(base.Writer(), base.Prefix()+"[meili] ", base.Flags())
	mailLog := log.New(base.Writer(), base.Prefix()+"[mail] ", base.Flags())
	svcLog := log.New(base.Writer(), base.Prefix()+"[service] ", base.Flags())

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed load config: %w", err)
	}
	base.Printf("\n  configuration: %s-------------------", cfg)

	base.Println("init PostgreSQL")
	pgRepo, err := postgres.NewPGRepo(ctx, pgLog, cfg.GetDSN(), cfg.DBScheme)
	if err != nil {
		return nil, fmt.Errorf("failed init postgres: %w", err)
	}
	base.Println("PostgreSQL is initialized")

	base.Println("init Redis")
	rc := redisx.New(redisx.Config{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	}, redisLog)
	if err := rc.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed init redis: %w", err)
	}
	base.Println("Redis is initialized")

	base.Println("init S3 storage")
	storage, err := s3storage.New(ctx, s3storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
		UseSSL:    cfg.S3UseSSL,
		PathStyle: cfg.S3PathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed init s3: %w", err)
	}

	base.Println("init Meilisearch")
	search := meili.New(meili.Config{
		Host:   cfg.MeiliHost,
		APIKey: cfg.MeiliAPIKey,
		Index:  cfg.MeiliIndex,
	}, meiliLog)

	base.Println("init SMTP")
	mailer, err := mail.New(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		Admin:    cfg.MyEmail,
	}, mailLog)
	if err != nil {
		return nil, fmt.Errorf("failed init smtp: %w", err)
	}

	// Auth primitives
	hasher := password.NewDefault()
	tm := token.New(cfg.TokenSecret, cfg.TokenIssuer, time.Duration(cfg.TokenExpireDays)*24*time.Hour)

	// Кеши поверх Redis
	blogCache := cache.NewBlogCache(rc, cacheLog)
	pageCache := cache.NewPageCache(rc, cacheLog, cfg.BlogPageCache, cfg.BlogPageCacheExpire)
	taxonomyCache := cache.NewTaxonomyCache(rc, cacheLog)
	userCache := cache.NewUserCache(rc, cacheLog, cfg.TokenExpireDays)
	flusher := cache.NewViewFlusher(rc, pgRepo.Blogs(), cacheLog)

	// Прикладной слой
	blogSvc := service.NewBlogService(pgRepo.Blogs(), blogCache, pageCache, search, svcLog)
	userSvc := service.NewUserService(pgRepo.Users(), userCache, hasher, tm, userCache, mailer, svcLog)
	categorySvc := service.NewCategoryService(pgRepo.Categories(), taxonomyCache, svcLog)
	tagSvc := service.NewTagService(pgRepo.Tags(), taxonomyCache, svcLog)
	topicSvc := service.NewTopicService(pgRepo.Topics(), taxonomyCache, svcLog)
	fileSvc := service.NewFileService(pgRepo.Files(), storage, svcLog)
	adminSvc := service.NewAdminService(pgRepo.Admin(), blogCache, pageCache, taxonomyCache, userCache, svcLog)

	base.Println("init Server")
	svc := web.Services{
		Blogs:      blogSvc,
		Users:      userSvc,
		Categories: categorySvc,
		Tags:       tagSvc,
		Topics:     topicSvc,
		Files:      fileSvc,
		Admin:      adminSvc,
	}
	auth := web.AuthDeps{Tokens: tm, Store: userCache, Users: userSvc}
	infra := web.Infra{DB: pgRepo, Cache: rc, Flusher: flusher}
	server := web.New(serverLog, cfg, svc, auth, infra)
	base.Println("Server is initialized")

	base.Println("build ended")
	return &App{
		config:  cfg,
		server:  server,
		log:     base,
		repo:    pgRepo,
		cache:   rc,
		flusher: flusher,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Println("start application...")
	go a.flusher.Run(ctx) // ночной слив счётчиков просмотров
	go a.server.Run()
	<-ctx.Done()
	a.log.Println("stop application...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.server.Close(stopCtx)
	a.repo.Close()
	a.cache.Close()

	return nil
}
