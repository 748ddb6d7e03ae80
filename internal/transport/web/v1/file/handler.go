package file

import (
	"log"
	"net/http"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
	"github.com/shuyuzheng19/go-blog-api/internal/service"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/logx"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/mw"
	v1 "github.com/shuyuzheng19/go-blog-api/internal/transport/web/v1"
)

type Handler struct {
	Log   *log.Logger
	Files *service.FileService
}

// Upload godoc
// @Summary     Загрузка файла
// @Description multipart-поле "file"; ?public=1 делает файл общедоступным.
// @Tags        file
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "файл"
// @Success     200 {object} domain.APIEnvelope{data=domain.StoredFile}
// @Failure     400 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /api/v1/file/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	const op = "file.upload"
	reqID := mw.RequestIDFromCtx(r.Context())
	u, _ := domain.UserFromCtx(r.Context())

	f, hdr, err := r.FormFile("file")
	if err != nil {
		logx.Error(h.Log, reqID, op, "no file in form", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	defer f.Close()

	public := r.URL.Query().Get("public") == "1"
	stored, err := h.Files.Upload(r.Context(), u.ID, hdr.Filename, hdr.Header.Get("Content-Type"), f, public)
	if err != nil {
		logx.Error(h.Log, reqID, op, "upload failed", err, "name", hdr.Filename)
		v1.WriteDomainError(w, r, err)
		return
	}
	logx.Info(h.Log, reqID, op, "ok", "id", stored.ID, "size", stored.Size)
	v1.WriteOKData(w, r, stored)
}

// Public godoc
// @Summary  Общедоступные файлы постранично
// @Tags     file
// @Produce  json
// @Param    page    query int false "страница"
// @Param    keyword query string false "поиск по имени"
// @Success  200 {object} domain.APIEnvelope{data=domain.PageInfo[domain.StoredFile]}
// @Router   /api/v1/file/public [get]
func (h *Handler) Public(w http.ResponseWriter, r *http.Request) {
	info, err := h.Files.PagePublic(r.Context(), v1.Page(r), r.URL.Query().Get("keyword"))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, info)
}

// Current godoc
// @Summary  Мои файлы постранично
// @Tags     file
// @Produce  json
// @Param    page    query int false "страница"
// @Param    keyword query string false "поиск по имени"
// @Success  200 {object} domain.APIEnvelope{data=domain.PageInfo[domain.StoredFile]}
// @Security BearerAuth
// @Router   /api/v1/file/current [get]
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	u, _ := domain.UserFromCtx(r.Context())

	info, err := h.Files.PageByUser(r.Context(), u.ID, v1.Page(r), r.URL.Query().Get("keyword"))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, info)
}
