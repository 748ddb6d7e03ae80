package user

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
	Log   *log.Logger
	Users *service.UserService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login godoc
// @Summary     Авторизация
// @Description Возвращает JWT при валидных логине и пароле. Прошлая сессия отзывается.
// @Tags        user
// @Accept      json
// @Produce     json
// @Param       request body loginRequest true "username, password"
// @Success     200 {object} domain.APIEnvelope{data=service.LoginResult}
// @Failure     401 {object} domain.APIEnvelope
// @Router      /api/v1/user/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "user.login"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	res, err := h.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		logx.Error(h.Log, reqID, op, "login failed", err, "username", req.Username)
		v1.WriteDomainError(w, r, err)
		return
	}
	logx.Info(h.Log, reqID, op, "ok", "username", req.Username)
	v1.WriteOKData(w, r, res)
}

// Logout godoc
// @Summary  Выход — отзыв активного токена
// @Tags     user
// @Produce  json
// @Success  200 {object} domain.APIEnvelope{data=string}
// @Security BearerAuth
// @Router   /api/v1/user/logout [get]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "user.logout"
	reqID := mw.RequestIDFromCtx(r.Context())
	u, _ := domain.UserFromCtx(r.Context())

	if err := h.Users.Logout(r.Context(), u.Username); err != nil {
		logx.Error(h.Log, reqID, op, "logout failed", err, "username", u.Username)
		v1.WriteDomainError(w, r, err)
		return
	}
	logx.Info(h.Log, reqID, op, "ok", "username", u.Username)
	v1.WriteOKData(w, r, "ok")
}

type registerRequest struct {
	Username string `json:"username"`
	NickName string `json:"nickName"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Icon     string `json:"icon"`
	Code     string `json:"code"`
}

// Register godoc
// @Summary     Регистрация
// @Description Требует действующий код из письма.
// @Tags        user
// @Accept      json
// @Produce     json
// @Param       request body registerRequest true "данные и код"
// @Success     200 {object} domain.APIEnvelope{data=string}
// @Failure     400 {object} domain.APIEnvelope
// @Router      /api/v1/user/registered [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "user.register"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	in := domain.RegisterInput{
		Username: req.Username,
		NickName: req.NickName,
		Password: req.Password,
		Email:    req.Email,
		Icon:     req.Icon,
	}
	if err := h.Users.Register(r.Context(), in, req.Code); err != nil {
		logx.Error(h.Log, reqID, op, "register failed", err, "username", req.Username)
		v1.WriteDomainError(w, r, err)
		return
	}
	logx.Info(h.Log, reqID, op, "ok", "username", req.Username)
	v1.WriteOKData(w, r, "ok")
}

// SendCode godoc
// @Summary     Одноразовый код на почту
// @Description Пока прежний код жив (минуту), новый не выдаётся.
// @Tags        user
// @Produce     json
// @Param       email query string true "адрес"
// @Success     200 {object} domain.APIEnvelope{data=string}
// @Failure     400 {object} domain.APIEnvelope
// @Router      /api/v1/user/send_email [get]
func (h *Handler) SendCode(w http.ResponseWriter, r *http.Request) {
	const op = "user.send_code"
	reqID := mw.RequestIDFromCtx(r.Context())

	email := r.URL.Query().Get("email")
	if err := h.Users.SendCode(r.Context(), email); err != nil {
		logx.Error(h.Log, reqID, op, "send failed", err, "email", email)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, "ok")
}

type contactRequest struct {
	Subject string `json:"subject"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Content string `json:"content"`
}

// Contact godoc
// @Summary  Обратная связь
// @Tags     user
// @Accept   json
// @Produce  json
// @Param    request body contactRequest true "сообщение"
// @Success  200 {object} domain.APIEnvelope{data=string}
// @Router   /api/v1/user/contact [post]
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if err := h.Users.Contact(r.Context(), req.Subject, req.Name, req.Email, req.Content); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, "ok")
}

// Get godoc
// @Summary  Публичный профиль по имени
// @Tags     user
// @Produce  json
// @Param    username path string true "имя пользователя"
// @Success  200 {object} domain.APIEnvelope{data=domain.PublicUser}
// @Failure  404 {object} domain.APIEnvelope
// @Router   /api/v1/user/get/{username} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.GetUser(r.Context(), r.PathValue("username"))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, u)
}

// Website godoc
// @Summary  Настройки витрины сайта
// @Tags     user
// @Produce  json
// @Success  200 {object} domain.APIEnvelope{data=domain.WebsiteConfig}
// @Router   /api/v1/user/website [get]
func (h *Handler) Website(w http.ResponseWriter, r *http.Request) {
	v1.WriteOKData(w, r, h.Users.WebsiteConfig(r.Context()))
}

// Info godoc
// @Summary  Профиль текущего пользователя
// @Tags     user
// @Produce  json
// @Success  200 {object} domain.APIEnvelope{data=domain.PublicUser}
// @Security BearerAuth
// @Router   /api/v1/user/info [get]
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	u, _ := domain.UserFromCtx(r.Context())
	v1.WriteOKData(w, r, u.PublicView())
}
