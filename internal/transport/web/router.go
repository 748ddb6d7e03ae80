package web

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/shuyuzheng19/go-blog-api/internal/docs"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/mw"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1/admin"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1/blog"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1/category"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1/file"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1/health"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1/tag"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1/topic"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1/user"
)

type handlers struct {
	health   *health.Handler
	blog     *blog.Handler
	user     *user.Handler
	category *category.Handler
	tag      *tag.Handler
	topic    *topic.Handler
	file     *file.Handler
	admin    *admin.Handler
}

func newRouter(h handlers, auth AuthDeps, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	// обёртки прав доступа для отдельных маршрутов
	authed := func(hf http.HandlerFunc) http.HandlerFunc {
		return mw.RequireAuth(auth, hf).ServeHTTP
	}
	admins := func(hf http.HandlerFunc) http.HandlerFunc {
		return mw.RequireAdmin(auth, hf).ServeHTTP
	}
	super := func(hf http.HandlerFunc) http.HandlerFunc {
		return mw.RequireSuperAdmin(auth, hf).ServeHTTP
	}

	// health
	mux.HandleFunc("GET /api/v1/healthz", h.health.Liveness)
	mux.HandleFunc("GET /api/v1/readyz", h.health.Readiness)

	// blog
	mux.HandleFunc("GET /api/v1/blog/get/{id}", h.blog.Get)
	mux.HandleFunc("GET /api/v1/blog/list", h.blog.List)
	mux.HandleFunc("GET /api/v1/blog/hots", h.blog.Hot)
	mux.HandleFunc("GET /api/v1/blog/latest", h.blog.Latest)
	mux.HandleFunc("GET /api/v1/blog/range", h.blog.Archive)
	mux.HandleFunc("GET /api/v1/blog/recommend", h.blog.Recommend)
	mux.HandleFunc("GET /api/v1/blog/search", h.blog.Search)
	mux.HandleFunc("GET /api/v1/blog/similar", h.blog.Similar)
	mux.HandleFunc("GET /api/v1/blog/user/{id}", h.blog.UserBlogs)
	mux.HandleFunc("GET /api/v1/blog/user/{id}/top", h.blog.UserTop)
	mux.HandleFunc("POST /api/v1/blog", admins(h.blog.Create))
	mux.HandleFunc("PUT /api/v1/blog", admins(h.blog.Update))
	mux.HandleFunc("GET /api/v1/blog/edit/{id}", admins(h.blog.EditInfo))
	mux.HandleFunc("POST /api/v1/blog/draft", authed(h.blog.SaveDraft))
	mux.HandleFunc("GET /api/v1/blog/draft", authed(h.blog.Draft))

	// user
	mux.HandleFunc("POST /api/v1/user/login", h.user.Login)
	mux.HandleFunc("GET /api/v1/user/logout", authed(h.user.Logout))
	mux.HandleFunc("POST /api/v1/user/registered", h.user.Register)
	mux.HandleFunc("GET /api/v1/user/send_email", h.user.SendCode)
	mux.HandleFunc("POST /api/v1/user/contact", h.user.Contact)
	mux.HandleFunc("GET /api/v1/user/get/{username}", h.user.Get)
	mux.HandleFunc("GET /api/v1/user/info", authed(h.user.Info))
	mux.HandleFunc("GET /api/v1/user/website", h.user.Website)

	// category
	mux.HandleFunc("GET /api/v1/category/list", h.category.List)
	mux.HandleFunc("POST /api/v1/category", admins(h.category.Create))

	// tags
	mux.HandleFunc("GET /api/v1/tags/random", h.tag.Random)
	mux.HandleFunc("GET /api/v1/tags/list", h.tag.List)
	mux.HandleFunc("GET /api/v1/tags/get/{id}", h.tag.Get)
	mux.HandleFunc("GET /api/v1/tags/blogs/{id}", h.tag.Blogs)
	mux.HandleFunc("POST /api/v1/tags", admins(h.tag.Create))

	// topics
	mux.HandleFunc("GET /api/v1/topics/list", h.topic.Page)
	mux.HandleFunc("GET /api/v1/topics/all", h.topic.All)
	mux.HandleFunc("GET /api/v1/topics/get/{id}", h.topic.Get)
	mux.HandleFunc("GET /api/v1/topics/blogs/{id}", h.topic.Blogs)
	mux.HandleFunc("GET /api/v1/topics/all_blogs/{id}", h.topic.AllBlogs)
	mux.HandleFunc("GET /api/v1/topics/user/{id}", h.topic.UserTopics)
	mux.HandleFunc("GET /api/v1/topics/current", authed(h.topic.Current))
	mux.HandleFunc("POST /api/v1/topics", admins(h.topic.Create))

	// file
	mux.HandleFunc("POST /api/v1/file/upload", limitBody(64<<20, authed(h.file.Upload))) // 64MB лимит
	mux.HandleFunc("GET /api/v1/file/public", h.file.Public)
	mux.HandleFunc("GET /api/v1/file/current", authed(h.file.Current))

	// admin
	mux.HandleFunc("GET /api/v1/admin/blogs", admins(h.admin.AdminBlogs))
	mux.HandleFunc("POST /api/v1/admin/blogs/delete", admins(h.admin.DeleteBlogs))
	mux.HandleFunc("POST /api/v1/admin/blogs/restore", admins(h.admin.RestoreBlogs))
	mux.HandleFunc("GET /api/v1/admin/categories", admins(h.admin.Categories))
	mux.HandleFunc("POST /api/v1/admin/categories/delete", admins(h.admin.DeleteCategories))
	mux.HandleFunc("POST /api/v1/admin/categories/restore", admins(h.admin.RestoreCategories))
	mux.HandleFunc("GET /api/v1/admin/tags", admins(h.admin.Tags))
	mux.HandleFunc("POST /api/v1/admin/tags/delete", admins(h.admin.DeleteTags))
	mux.HandleFunc("POST /api/v1/admin/tags/restore", admins(h.admin.RestoreTags))
	mux.HandleFunc("GET /api/v1/admin/topics", admins(h.admin.Topics))
	mux.HandleFunc("POST /api/v1/admin/topics/delete", admins(h.admin.DeleteTopics))
	mux.HandleFunc("POST /api/v1/admin/topics/restore", admins(h.admin.RestoreTopics))
	mux.HandleFunc("PUT /api/v1/admin/category", admins(h.admin.UpdateCategory))
	mux.HandleFunc("PUT /api/v1/admin/tag", admins(h.admin.UpdateTag))
	mux.HandleFunc("PUT /api/v1/admin/topic", admins(h.admin.UpdateTopic))
	mux.HandleFunc("GET /api/v1/admin/files", admins(h.admin.FileList))
	mux.HandleFunc("PUT /api/v1/admin/file/public", admins(h.admin.SetFilePublic))
	mux.HandleFunc("POST /api/v1/admin/files/delete", admins(h.admin.DeleteFiles))
	mux.HandleFunc("POST /api/v1/admin/recommend", admins(h.admin.SetRecommend))
	mux.HandleFunc("POST /api/v1/admin/search/rebuild", admins(h.admin.RebuildSearch))
	mux.HandleFunc("POST /api/v1/admin/latest/reset", admins(h.admin.ResetLatest))
	mux.HandleFunc("POST /api/v1/admin/views/flush", admins(h.admin.FlushViews))
	mux.HandleFunc("GET /api/v1/admin/website", super(h.admin.Website))
	mux.HandleFunc("PUT /api/v1/admin/website", super(h.admin.SetWebsite))
	mux.HandleFunc("PUT /api/v1/admin/role", super(h.admin.UpdateRole))

	// metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// swagger
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// 🔗 middleware
	return mw.WithRequestID(mw.Logging(logger)(mux))
}

func limitBody(n int64, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		h(w, r)
	}
}
