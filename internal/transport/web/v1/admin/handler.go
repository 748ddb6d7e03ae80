// Package admin — закрытый контур: массовые операции над контентом,
// настройки витрины и сервисные ручки (пересборка индекса, слив счётчиков).
package admin

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/shuyuzheng19/go-blog-api/internal/cache"
	"github.com/shuyuzheng19/go-blog-api/internal/domain"
	"github.com/shuyuzheng19/go-blog-api/internal/service"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/logx"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/mw"
	v1 "github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1"
)

type Handler struct {
	Log     *log.Logger
	Admin   *service.AdminService
	Blogs   *service.BlogService
	Users   *service.UserService
	Files   *service.FileService
	Flusher *cache.ViewFlusher
}

type idsRequest struct {
	IDs []int64 `json:"ids"`
}

// Blogs godoc
// @Summary  Посты (живые или удалённые) с фильтрами
// @Tags     admin
// @Produce  json
// @Param    page    query int false "страница"
// @Param    keyword query string false "поиск по заголовку"
// @Param    cid     query int false "категория"
// @Param    tid     query int false "тема"
// @Param    sort    query string false "create | eye | back"
// @Param    deleted query int false "1 — корзина"
// @Success  200 {object} domain.APIEnvelope{data=domain.PageInfo[domain.AdminBlog]}
// @Security BearerAuth
// @Router   /api/v1/admin/blogs [get]
func (h *Handler) AdminBlogs(w http.ResponseWriter, r *http.Request) {
	u, _ := domain.UserFromCtx(r.Context())

	f := domain.AdminBlogFilter{
		Page:       v1.Page(r),
		Keyword:    r.URL.Query().Get("keyword"),
		CategoryID: v1.QueryInt64(r, "cid", 0),
		TopicID:    v1.QueryInt64(r, "tid", 0),
		Sort:       domain.SortMode(r.URL.Query().Get("sort")),
	}
	deleted := r.URL.Query().Get("deleted") == "1"
	info, err := h.Admin.BlogPage(r.Context(), u, f, deleted)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, info)
}

// DeleteBlogs godoc
// @Summary  Убрать посты в корзину
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    request body idsRequest true "ids"
// @Success  200 {object} domain.APIEnvelope{data=int}
// @Security BearerAuth
// @Router   /api/v1/admin/blogs/delete [post]
func (h *Handler) DeleteBlogs(w http.ResponseWriter, r *http.Request) {
	h.softDeleteBlogs(w, r, true)
}

// RestoreBlogs godoc
// @Summary  Вернуть посты из корзины
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    request body idsRequest true "ids"
// @Success  200 {object} domain.APIEnvelope{data=int}
// @Security BearerAuth
// @Router   /api/v1/admin/blogs/restore [post]
func (h *Handler) RestoreBlogs(w http.ResponseWriter, r *http.Request) {
	h.softDeleteBlogs(w, r, false)
}

func (h *Handler) softDeleteBlogs(w http.ResponseWriter, r *http.Request, deleted bool) {
	const op = "admin.blogs.delete"
	reqID := mw.RequestIDFromCtx(r.Context())
	u, _ := domain.UserFromCtx(r.Context())

	ids, ok := decodeIDs(r)
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	n, err := h.Admin.DeleteBlogs(r.Context(), u, ids, deleted)
	if err != nil {
		logx.Error(h.Log, reqID, op, "soft delete failed", err, "deleted", deleted)
		v1.WriteDomainError(w, r, err)
		return
	}
	logx.Info(h.Log, reqID, op, "ok", "affected", n, "deleted", deleted)
	v1.WriteOKData(w, r, n)
}

// Categories godoc
// @Summary  Категории постранично
// @Tags     admin
// @Produce  json
// @Param    page    query int false "страница"
// @Param    keyword query string false "поиск"
// @Param    deleted query int false "1 — корзина"
// @Success  200 {object} domain.APIEnvelope{data=domain.PageInfo[domain.AdminTaxonomy]}
// @Security BearerAuth
// @Router   /api/v1/admin/categories [get]
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	info, err := h.Admin.CategoryPage(r.Context(), adminFilter(r))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, info)
}

// Tags godoc
// @Summary  Теги постранично
// @Tags     admin
// @Produce  json
// @Param    page    query int false "страница"
// @Param    keyword query string false "поиск"
// @Param    deleted query int false "1 — корзина"
// @Success  200 {object} domain.APIEnvelope{data=domain.PageInfo[domain.AdminTaxonomy]}
// @Security BearerAuth
// @Router   /api/v1/admin/tags [get]
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	info, err := h.Admin.TagPage(r.Context(), adminFilter(r))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, info)
}

// Topics godoc
// @Summary  Темы постранично (свои либо все для супер-админа)
// @Tags     admin
// @Produce  json
// @Param    page    query int false "страница"
// @Param    keyword query string false "поиск"
// @Param    deleted query int false "1 — корзина"
// @Success  200 {object} domain.APIEnvelope{data=domain.PageInfo[domain.AdminTopic]}
// @Security BearerAuth
// @Router   /api/v1/admin/topics [get]
func (h *Handler) Topics(w http.ResponseWriter, r *http.Request) {
	u, _ := domain.UserFromCtx(r.Context())

	info, err := h.Admin.TopicPage(r.Context(), u, adminFilter(r))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, info)
}

// Files godoc
// @Summary  Файлы постранично
// @Tags     admin
// @Produce  json
// @Param    page    query int false "страница"
// @Param    keyword query string false "поиск"
// @Success  200 {object} domain.APIEnvelope{data=domain.PageInfo[domain.StoredFile]}
// @Security BearerAuth
// @Router   /api/v1/admin/files [get]
func (h *Handler) FileList(w http.ResponseWriter, r *http.Request) {
	info, err := h.Admin.FilePage(r.Context(), adminFilter(r))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, info)
}

// DeleteCategories / RestoreCategories — корзина категорий; посты
// удалённой категории тоже уходят из выдачи.
func (h *Handler) DeleteCategories(w http.ResponseWriter, r *http.Request) {
	h.taxonomyDelete(w, r, "categories", true)
}
func (h *Handler) RestoreCategories(w http.ResponseWriter, r *http.Request) {
	h.taxonomyDelete(w, r, "categories", false)
}
func (h *Handler) DeleteTags(w http.ResponseWriter, r *http.Request) {
	h.taxonomyDelete(w, r, "tags", true)
}
func (h *Handler) RestoreTags(w http.ResponseWriter, r *http.Request) {
	h.taxonomyDelete(w, r, "tags", false)
}
func (h *Handler) DeleteTopics(w http.ResponseWriter, r *http.Request) {
	h.taxonomyDelete(w, r, "topics", true)
}
func (h *Handler) RestoreTopics(w http.ResponseWriter, r *http.Request) {
	h.taxonomyDelete(w, r, "topics", false)
}

func (h *Handler) taxonomyDelete(w http.ResponseWriter, r *http.Request, table string, deleted bool) {
	const op = "admin.taxonomy.delete"
	reqID := mw.RequestIDFromCtx(r.Context())
	u, _ := domain.UserFromCtx(r.Context())

	ids, ok := decodeIDs(r)
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	var (
		n   int64
		err error
	)
	switch table {
	case "categories":
		n, err = h.Admin.DeleteCategories(r.Context(), ids, deleted)
	case "tags":
		n, err = h.Admin.DeleteTags(r.Context(), ids, deleted)
	case "topics":
		n, err = h.Admin.DeleteTopics(r.Context(), u, ids, deleted)
	}
	if err != nil {
		logx.Error(h.Log, reqID, op, "failed", err, "table", table, "deleted", deleted)
		v1.WriteDomainError(w, r, err)
		return
	}
	logx.Info(h.Log, reqID, op, "ok", "table", table, "affected", n, "deleted", deleted)
	v1.WriteOKData(w, r, n)
}

type renameRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UpdateCategory godoc
// @Summary  Переименовать категорию
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    request body renameRequest true "id, name"
// @Success  200 {object} domain.APIEnvelope{data=string}
// @Security BearerAuth
// @Router   /api/v1/admin/category [put]
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if err := h.Admin.UpdateCategoryName(r.Context(), req.ID, req.Name); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, "ok")
}

// UpdateTag godoc
// @Summary  Переименовать тег
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    request body renameRequest true "id, name"
// @Success  200 {object} domain.APIEnvelope{data=string}
// @Security BearerAuth
// @Router   /api/v1/admin/tag [put]
func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if err := h.Admin.UpdateTagName(r.Context(), req.ID, req.Name); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, "ok")
}

// UpdateTopic godoc
// @Summary  Обновить тему (имя, описание, обложка)
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    request body domain.TopicInput true "тема"
// @Success  200 {object} domain.APIEnvelope{data=string}
// @Security BearerAuth
// @Router   /api/v1/admin/topic [put]
func (h *Handler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	u, _ := domain.UserFromCtx(r.Context())

	var in domain.TopicInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if err := h.Admin.UpdateTopic(r.Context(), u, in); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, "ok")
}

type filePublicRequest struct {
	ID     int64 `json:"id"`
	Public bool  `json:"public"`
}

// SetFilePublic godoc
// @Summary  Открыть или спрятать файл
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    request body filePublicRequest true "id, public"
// @Success  200 {object} domain.APIEnvelope{data=string}
// @Security BearerAuth
// @Router   /api/v1/admin/file/public [put]
func (h *Handler) SetFilePublic(w http.ResponseWriter, r *http.Request) {
	var req filePublicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if err := h.Files.SetPublic(r.Context(), req.ID, req.Public); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, "ok")
}

// DeleteFiles godoc
// @Summary  Удалить записи о файлах
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    request body idsRequest true "ids"
// @Success  200 {object} domain.APIEnvelope{data=int}
// @Security BearerAuth
// @Router   /api/v1/admin/files/delete [post]
func (h *Handler) DeleteFiles(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeIDs(r)
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	n, err := h.Admin.DeleteFiles(r.Context(), ids)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, n)
}

// SetRecommend godoc
// @Summary  Задать кураторскую подборку (ровно 4 поста)
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    request body idsRequest true "ids"
// @Success  200 {object} domain.APIEnvelope{data=string}
// @Security BearerAuth
// @Router   /api/v1/admin/recommend [post]
func (h *Handler) SetRecommend(w http.ResponseWriter, r *http.Request) {
	const op = "admin.recommend"
	reqID := mw.RequestIDFromCtx(r.Context())

	ids, ok := decodeIDs(r)
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if err := h.Blogs.SetRecommend(r.Context(), ids); err != nil {
		logx.Error(h.Log, reqID, op, "set failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	logx.Info(h.Log, reqID, op, "ok", "ids", ids)
	v1.WriteOKData(w, r, "ok")
}

// Website godoc
// @Summary  Настройки витрины (текущие)
// @Tags     admin
// @Produce  json
// @Success  200 {object} domain.APIEnvelope{data=domain.WebsiteConfig}
// @Security BearerAuth
// @Router   /api/v1/admin/website [get]
func (h *Handler) Website(w http.ResponseWriter, r *http.Request) {
	v1.WriteOKData(w, r, h.Admin.WebsiteConfig(r.Context()))
}

// SetWebsite godoc
// @Summary  Обновить настройки витрины
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    request body domain.WebsiteConfig true "настройки"
// @Success  200 {object} domain.APIEnvelope{data=string}
// @Security BearerAuth
// @Router   /api/v1/admin/website [put]
func (h *Handler) SetWebsite(w http.ResponseWriter, r *http.Request) {
	var cfg domain.WebsiteConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if err := h.Admin.SetWebsiteConfig(r.Context(), cfg); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, "ok")
}

type roleRequest struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
}

// UpdateRole godoc
// @Summary     Сменить роль пользователя
// @Description Только супер-админ; сессия пользователя отзывается сразу.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       request body roleRequest true "id, role (USER | ADMIN)"
// @Success     200 {object} domain.APIEnvelope{data=string}
// @Security    BearerAuth
// @Router      /api/v1/admin/role [put]
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	const op = "admin.role"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if err := h.Users.UpdateRole(r.Context(), req.ID, req.Role); err != nil {
		logx.Error(h.Log, reqID, op, "update failed", err, "id", req.ID)
		v1.WriteDomainError(w, r, err)
		return
	}
	logx.Info(h.Log, reqID, op, "ok", "id", req.ID, "role", req.Role)
	v1.WriteOKData(w, r, "ok")
}

// RebuildSearch godoc
// @Summary  Перезалить поисковый индекс всеми живыми постами
// @Tags     admin
// @Produce  json
// @Success  200 {object} domain.APIEnvelope{data=string}
// @Security BearerAuth
// @Router   /api/v1/admin/search/rebuild [post]
func (h *Handler) RebuildSearch(w http.ResponseWriter, r *http.Request) {
	const op = "admin.search.rebuild"
	reqID := mw.RequestIDFromCtx(r.Context())

	if err := h.Blogs.RebuildSearchIndex(r.Context()); err != nil {
		logx.Error(h.Log, reqID, op, "rebuild failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	logx.Info(h.Log, reqID, op, "ok")
	v1.WriteOKData(w, r, "ok")
}

// ResetLatest godoc
// @Summary  Сбросить кеш блока «свежее»
// @Tags     admin
// @Produce  json
// @Success  200 {object} domain.APIEnvelope{data=string}
// @Security BearerAuth
// @Router   /api/v1/admin/latest/reset [post]
func (h *Handler) ResetLatest(w http.ResponseWriter, r *http.Request) {
	h.Blogs.ResetLatestCache(r.Context())
	v1.WriteOKData(w, r, "ok")
}

// FlushViews godoc
// @Summary     Слить накопленные счётчики просмотров в БД сейчас
// @Description То же, что делает ночной фоновый слив.
// @Tags        admin
// @Produce     json
// @Success     200 {object} domain.APIEnvelope{data=string}
// @Security    BearerAuth
// @Router      /api/v1/admin/views/flush [post]
func (h *Handler) FlushViews(w http.ResponseWriter, r *http.Request) {
	const op = "admin.views.flush"
	reqID := mw.RequestIDFromCtx(r.Context())

	h.Flusher.Flush(r.Context())
	logx.Info(h.Log, reqID, op, "ok")
	v1.WriteOKData(w, r, "ok")
}

func adminFilter(r *http.Request) domain.AdminFilter {
	return domain.AdminFilter{
		Page:    v1.Page(r),
		Keyword: r.URL.Query().Get("keyword"),
		Deleted: r.URL.Query().Get("deleted") == "1",
	}
}

func decodeIDs(r *http.Request) ([]int64, bool) {
	var req idsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		return nil, false
	}
	return req.IDs, true
}
