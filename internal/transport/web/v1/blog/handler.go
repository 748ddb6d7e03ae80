package blog

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
	"github.com/shuyuzheng19/go-blog-api/internal/service"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/logx"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/mw"
	v1 "github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1"
)

type Handler struct {
	Log   *log.Logger
	Blogs *service.BlogService
}

// Get godoc
// @Summary     Детальная страница поста
// @Description Каждый просмотр увеличивает счётчик в кеше; в БД он уедет ночным сливом.
// @Tags        blog
// @Produce     json
// @Param       id path int true "id поста"
// @Success     200 {object} domain.APIEnvelope{data=domain.BlogContent}
// @Failure     404 {object} domain.APIEnvelope
// @Router      /api/v1/blog/get/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "blog.get"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, ok := v1.PathInt64(r, "id")
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	blog, err := h.Blogs.GetBlog(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "get failed", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, blog)
}

// List godoc
// @Summary  Листинг постов
// @Tags     blog
// @Produce  json
// @Param    page query int false "страница"
// @Param    sort query string false "create | eye | back"
// @Param    cid  query int false "id категории, 0 — все"
// @Success  200 {object} domain.APIEnvelope{data=domain.PageInfo[domain.BlogCard]}
// @Router   /api/v1/blog/list [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "blog.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	f := domain.BlogFilter{
		Page:       v1.Page(r),
		Sort:       domain.SortMode(r.URL.Query().Get("sort")),
		CategoryID: v1.QueryInt64(r, "cid", 0),
	}
	info, err := h.Blogs.Page(r.Context(), f)
	if err != nil {
		logx.Error(h.Log, reqID, op, "page failed", err, "page", f.Page)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, info)
}

// Hot godoc
// @Summary  Самые просматриваемые посты
// @Tags     blog
// @Produce  json
// @Success  200 {object} domain.APIEnvelope{data=[]domain.SimpleBlog}
// @Router   /api/v1/blog/hots [get]
func (h *Handler) Hot(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.Blogs.HotBlogs(r.Context())
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, blogs)
}

// Latest godoc
// @Summary  Свежие посты
// @Tags     blog
// @Produce  json
// @Success  200 {object} domain.APIEnvelope{data=[]domain.SimpleBlog}
// @Router   /api/v1/blog/latest [get]
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.Blogs.LatestBlogs(r.Context())
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, blogs)
}

// Archive godoc
// @Summary  Архив постов за период
// @Tags     blog
// @Produce  json
// @Param    page  query int true "страница"
// @Param    start query int true "unix millis"
// @Param    end   query int true "unix millis"
// @Success  200 {object} domain.APIEnvelope{data=domain.PageInfo[domain.ArchiveBlog]}
// @Router   /api/v1/blog/range [get]
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	const op = "blog.range"
	reqID := mw.RequestIDFromCtx(r.Context())

	ar := domain.ArchiveRange{
		Page:  v1.Page(r),
		Start: time.UnixMilli(v1.QueryInt64(r, "start", 0)),
		End:   time.UnixMilli(v1.QueryInt64(r, "end", 0)),
	}
	info, err := h.Blogs.Archive(r.Context(), ar)
	if err != nil {
		logx.Error(h.Log, reqID, op, "archive failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, info)
}

// Recommend godoc
// @Summary  Кураторская подборка
// @Tags     blog
// @Produce  json
// @Success  200 {object} domain.APIEnvelope{data=[]domain.RecommendBlog}
// @Router   /api/v1/blog/recommend [get]
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	v1.WriteOKData(w, r, h.Blogs.RecommendBlogs(r.Context()))
}

// Search godoc
// @Summary  Полнотекстовый поиск
// @Tags     blog
// @Produce  json
// @Param    keyword query string true "строка запроса"
// @Param    page    query int false "страница"
// @Success  200 {object} domain.APIEnvelope{data=domain.PageInfo[domain.SearchBlog]}
// @Router   /api/v1/blog/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	const op = "blog.search"
	reqID := mw.RequestIDFromCtx(r.Context())

	info, err := h.Blogs.Search(r.Context(), r.URL.Query().Get("keyword"), v1.Page(r))
	if err != nil {
		logx.Error(h.Log, reqID, op, "search failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, info)
}

// Similar godoc
// @Summary  Похожие посты (по заголовку)
// @Tags     blog
// @Produce  json
// @Param    keyword query string true "заголовок"
// @Success  200 {object} domain.APIEnvelope{data=domain.PageInfo[domain.SearchBlog]}
// @Router   /api/v1/blog/similar [get]
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	info, err := h.Blogs.Search(r.Context(), r.URL.Query().Get("keyword"), 1)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, info)
}

// UserBlogs godoc
// @Summary  Посты пользователя
// @Tags     blog
// @Produce  json
// @Param    id   path  int true "id пользователя"
// @Param    page query int false "страница"
// @Param    sort query string false "create | eye | back"
// @Success  200 {object} domain.APIEnvelope{data=domain.PageInfo[domain.BlogCard]}
// @Router   /api/v1/blog/user/{id} [get]
func (h *Handler) UserBlogs(w http.ResponseWriter, r *http.Request) {
	uid, ok := v1.PathInt64(r, "id")
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	f := domain.UserBlogFilter{Page: v1.Page(r), Sort: domain.SortMode(r.URL.Query().Get("sort"))}
	info, err := h.Blogs.UserBlogs(r.Context(), uid, f)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, info)
}

// UserTop godoc
// @Summary  Топ постов пользователя
// @Tags     blog
// @Produce  json
// @Param    id path int true "id пользователя"
// @Success  200 {object} domain.APIEnvelope{data=[]domain.SimpleBlog}
// @Router   /api/v1/blog/user/{id}/top [get]
func (h *Handler) UserTop(w http.ResponseWriter, r *http.Request) {
	uid, ok := v1.PathInt64(r, "id")
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	blogs, err := h.Blogs.UserTopBlogs(r.Context(), uid)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, blogs)
}

// Create godoc
// @Summary  Создать пост
// @Tags     blog
// @Accept   json
// @Produce  json
// @Param    request body domain.BlogInput true "пост"
// @Success  200 {object} domain.APIEnvelope{data=int}
// @Failure  400 {object} domain.APIEnvelope
// @Security BearerAuth
// @Router   /api/v1/blog [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "blog.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	u, _ := domain.UserFromCtx(r.Context())

	var in domain.BlogInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	id, err := h.Blogs.Create(r.Context(), u.ID, in)
	if err != nil {
		logx.Error(h.Log, reqID, op, "create failed", err, "user", u.Username)
		v1.WriteDomainError(w, r, err)
		return
	}
	logx.Info(h.Log, reqID, op, "ok", "id", id, "user", u.Username)
	v1.WriteOKData(w, r, id)
}

// Update godoc
// @Summary  Обновить пост
// @Tags     blog
// @Accept   json
// @Produce  json
// @Param    request body domain.BlogInput true "пост с id"
// @Success  200 {object} domain.APIEnvelope{data=string}
// @Security BearerAuth
// @Router   /api/v1/blog [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "blog.update"
	reqID := mw.RequestIDFromCtx(r.Context())
	u, _ := domain.UserFromCtx(r.Context())

	var in domain.BlogInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	uid := u.ID
	if u.IsSuperAdmin() {
		uid = -1 // супер-админ правит чужие посты
	}
	if err := h.Blogs.Update(r.Context(), uid, in); err != nil {
		logx.Error(h.Log, reqID, op, "update failed", err, "id", in.ID)
		v1.WriteDomainError(w, r, err)
		return
	}
	logx.Info(h.Log, reqID, op, "ok", "id", in.ID, "user", u.Username)
	v1.WriteOKData(w, r, "ok")
}

// EditInfo godoc
// @Summary  Пост в форме для редактирования
// @Tags     blog
// @Produce  json
// @Param    id path int true "id поста"
// @Success  200 {object} domain.APIEnvelope{data=domain.BlogInput}
// @Security BearerAuth
// @Router   /api/v1/blog/edit/{id} [get]
func (h *Handler) EditInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := v1.PathInt64(r, "id")
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	in, err := h.Blogs.EditInfo(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, in)
}

type draftRequest struct {
	Content string `json:"content"`
}

// SaveDraft godoc
// @Summary  Сохранить черновик
// @Tags     blog
// @Accept   json
// @Produce  json
// @Param    request body draftRequest true "черновик"
// @Success  200 {object} domain.APIEnvelope{data=string}
// @Security BearerAuth
// @Router   /api/v1/blog/draft [post]
func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	u, _ := domain.UserFromCtx(r.Context())

	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if err := h.Blogs.SaveDraft(r.Context(), u.ID, req.Content); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, "ok")
}

// Draft godoc
// @Summary  Забрать черновик
// @Tags     blog
// @Produce  json
// @Success  200 {object} domain.APIEnvelope{data=string}
// @Failure  404 {object} domain.APIEnvelope
// @Security BearerAuth
// @Router   /api/v1/blog/draft [get]
func (h *Handler) Draft(w http.ResponseWriter, r *http.Request) {
	u, _ := domain.UserFromCtx(r.Context())

	content, err := h.Blogs.Draft(r.Context(), u.ID)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, content)
}
