package category

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
	Log        *log.Logger
	Categories *service.CategoryService
}

// List godoc
// @Summary  Список категорий
// @Tags     category
// @Produce  json
// @Success  200 {object} domain.APIEnvelope{data=[]domain.Category}
// @Router   /api/v1/category/list [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Categories.List(r.Context())
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, list)
}

type createRequest struct {
	Name string `json:"name"`
}

// Create godoc
// @Summary  Добавить категорию
// @Tags     category
// @Accept   json
// @Produce  json
// @Param    request body createRequest true "имя"
// @Success  200 {object} domain.APIEnvelope{data=domain.Category}
// @Security BearerAuth
// @Router   /api/v1/category [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "category.create"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	c, err := h.Categories.Create(r.Context(), req.Name)
	if err != nil {
		logx.Error(h.Log, reqID, op, "create failed", err, "name", req.Name)
		v1.WriteDomainError(w, r, err)
		return
	}
	logx.Info(h.Log, reqID, op, "ok", "id", c.ID)
	v1.WriteOKData(w, r, c)
}
