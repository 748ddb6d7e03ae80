package topic

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
	Log    *log.Logger
	Topics *service.TopicService
}

// Page godoc
// @Summary  Листинг тем
// @Tags     topic
// @Produce  json
// @Param    page query int false "страница"
// @Success  200 {object} domain.APIEnvelope{data=domain.PageInfo[domain.Topic]}
// @Router   /api/v1/topics/list [get]
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	info, err := h.Topics.Page(r.Context(), v1.Page(r))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, info)
}

// All godoc
// @Summary  Все темы одним списком
// @Tags     topic
// @Produce  json
// @Success  200 {object} domain.APIEnvelope{data=[]domain.SimpleTopic}
// @Router   /api/v1/topics/all [get]
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	topics, err := h.Topics.All(r.Context())
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, topics)
}

// Get godoc
// @Summary  Тема по id
// @Tags     topic
// @Produce  json
// @Param    id path int true "id темы"
// @Success  200 {object} domain.APIEnvelope{data=domain.SimpleTopic}
// @Failure  404 {object} domain.APIEnvelope
// @Router   /api/v1/topics/get/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := v1.PathInt64(r, "id")
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	t, err := h.Topics.Get(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, t)
}

// Blogs godoc
// @Summary  Посты темы постранично
// @Tags     topic
// @Produce  json
// @Param    id   path  int true "id темы"
// @Param    page query int false "страница"
// @Success  200 {object} domain.APIEnvelope{data=domain.PageInfo[domain.TopicBlog]}
// @Router   /api/v1/topics/blogs/{id} [get]
func (h *Handler) Blogs(w http.ResponseWriter, r *http.Request) {
	id, ok := v1.PathInt64(r, "id")
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	info, err := h.Topics.Blogs(r.Context(), v1.Page(r), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, info)
}

// AllBlogs godoc
// @Summary  Оглавление темы — все посты без пагинации
// @Tags     topic
// @Produce  json
// @Param    id path int true "id темы"
// @Success  200 {object} domain.APIEnvelope{data=[]domain.SimpleBlog}
// @Router   /api/v1/topics/all_blogs/{id} [get]
func (h *Handler) AllBlogs(w http.ResponseWriter, r *http.Request) {
	id, ok := v1.PathInt64(r, "id")
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	blogs, err := h.Topics.AllBlogs(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, blogs)
}

// UserTopics godoc
// @Summary  Темы пользователя
// @Tags     topic
// @Produce  json
// @Param    id path int true "id пользователя"
// @Success  200 {object} domain.APIEnvelope{data=[]domain.UserTopic}
// @Router   /api/v1/topics/user/{id} [get]
func (h *Handler) UserTopics(w http.ResponseWriter, r *http.Request) {
	uid, ok := v1.PathInt64(r, "id")
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	topics, err := h.Topics.UserTopics(r.Context(), uid)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, topics)
}

// Current godoc
// @Summary  Мои темы
// @Tags     topic
// @Produce  json
// @Success  200 {object} domain.APIEnvelope{data=[]domain.UserTopic}
// @Security BearerAuth
// @Router   /api/v1/topics/current [get]
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	u, _ := domain.UserFromCtx(r.Context())

	topics, err := h.Topics.UserTopics(r.Context(), u.ID)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, topics)
}

// Create godoc
// @Summary  Создать тему
// @Tags     topic
// @Accept   json
// @Produce  json
// @Param    request body domain.TopicInput true "тема"
// @Success  200 {object} domain.APIEnvelope{data=string}
// @Security BearerAuth
// @Router   /api/v1/topics [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "topic.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	u, _ := domain.UserFromCtx(r.Context())

	var in domain.TopicInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if err := h.Topics.Create(r.Context(), u.ID, in); err != nil {
		logx.Error(h.Log, reqID, op, "create failed", err, "name", in.Name)
		v1.WriteDomainError(w, r, err)
		return
	}
	logx.Info(h.Log, reqID, op, "ok", "name", in.Name, "user", u.Username)
	v1.WriteOKData(w, r, "ok")
}
