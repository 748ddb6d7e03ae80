package tag

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
	"github.com/shuyuzheng19/go-blog-api/internal/service"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/logx"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/mw"
	v1 "github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1"
)

type Handler struct {
	Log  *log.Logger
	Tags *service.TagService
}

// Random godoc
// @Summary  Случайные теги для облака
// @Tags     tag
// @Produce  json
// @Success  200 {object} domain.APIEnvelope{data=[]domain.Tag}
// @Router   /api/v1/tags/random [get]
func (h *Handler) Random(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Tags.RandomTags(r.Context())
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, tags)
}

// List godoc
// @Summary  Все теги
// @Tags     tag
// @Produce  json
// @Success  200 {object} domain.APIEnvelope{data=[]domain.Tag}
// @Router   /api/v1/tags/list [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Tags.List(r.Context())
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, tags)
}

// Get godoc
// @Summary  Тег по id
// @Tags     tag
// @Produce  json
// @Param    id path int true "id тега"
// @Success  200 {object} domain.APIEnvelope{data=domain.Tag}
// @Failure  404 {object} domain.APIEnvelope
// @Router   /api/v1/tags/get/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := v1.PathInt64(r, "id")
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	t, err := h.Tags.Get(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, t)
}

// Blogs godoc
// @Summary  Посты с тегом
// @Tags     tag
// @Produce  json
// @Param    id   path  int true "id тега"
// @Param    page query int false "страница"
// @Success  200 {object} domain.APIEnvelope{data=domain.PageInfo[domain.BlogCard]}
// @Router   /api/v1/tags/blogs/{id} [get]
func (h *Handler) Blogs(w http.ResponseWriter, r *http.Request) {
	id, ok := v1.PathInt64(r, "id")
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	info, err := h.Tags.Blogs(r.Context(), v1.Page(r), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, info)
}

type createRequest struct {
	Name string `json:"name"`
}

// Create godoc
// @Summary  Добавить тег
// @Tags     tag
// @Accept   json
// @Produce  json
// @Param    request body createRequest true "имя"
// @Success  200 {object} domain.APIEnvelope{data=domain.Tag}
// @Security BearerAuth
// @Router   /api/v1/tags [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "tag.create"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	t, err := h.Tags.Create(r.Context(), req.Name)
	if err != nil {
		logx.Error(h.Log, reqID, op, "create failed", err, "name", req.Name)
		v1.WriteDomainError(w, r, err)
		return
	}
	logx.Info(h.Log, reqID, op, "ok", "id", t.ID)
	v1.WriteOKData(w, r, t)
}
