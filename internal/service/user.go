package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"

	"github.com/shuyuzheng19/go-blog-api/internal/cache"
	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

type UserService struct {
	repo   domain.UserRepo
	cache  *cache.UserCache
	hasher domain.PasswordHasher
	tokens domain.TokenManager
	store  domain.TokenStore
	mailer domain.Mailer
	logger *log.Logger
}

func NewUserService(
	repo domain.UserRepo,
	uc *cache.UserCache,
	hasher domain.PasswordHasher,
	tokens domain.TokenManager,
	store domain.TokenStore,
	mailer domain.Mailer,
	logger *log.Logger,
) *UserService {
	return &UserService{repo: repo, cache: uc, hasher: hasher, tokens: tokens, store: store, mailer: mailer, logger: logger}
}

type LoginResult struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

// Login сверяет пароль и выпускает токен. Повторный логин отзывает
// предыдущую сессию: в кеше живёт ровно один токен на пользователя.
func (s *UserService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	if username == "" || password == "" {
		return LoginResult{}, domain.ErrBadParams
	}

	u, err := s.userByName(ctx, username)
	if err != nil {
		return LoginResult{}, err
	}
	if u == nil {
		return LoginResult{}, domain.ErrUnauth
	}

	ok, err := s.hasher.Verify(password, u.Password)
	if err != nil || !ok {
		return LoginResult{}, domain.ErrUnauth
	}

	token, _, err := s.tokens.Issue(ctx, u.ID, u.Username)
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.store.Set(ctx, u.Username, token); err != nil {
		// без записи токена авторизация не пройдёт ни на одном запросе
		return LoginResult{}, err
	}

	s.logger.Printf("user %s logged in", u.Username)
	return LoginResult{Token: token, User: u.PublicView()}, nil
}

func (s *UserService) Logout(ctx context.Context, username string) error {
	return s.store.Remove(ctx, username)
}

// Register — только с действующим почтовым кодом.
func (s *UserService) Register(ctx context.Context, in domain.RegisterInput, code string) error {
	if !domain.ValidUsername(in.Username) || !domain.ValidPassword(in.Password) || !domain.ValidEmail(in.Email) {
		return domain.ErrBadParams
	}

	want, ok := s.cache.EmailCode(ctx, in.Email)
	if !ok || want != code {
		return domain.ErrBadParams
	}

	exists, err := s.repo.Exists(ctx, in.Username, in.Email)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrBadParams
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return err
	}
	in.Password = hash
	if in.NickName == "" {
		in.NickName = in.Username
	}

	if _, err := s.repo.Insert(ctx, in); err != nil {
		return err
	}
	s.cache.RemoveEmailCode(ctx, in.Email)
	s.logger.Printf("user %s registered", in.Username)
	return nil
}

// SendCode шлёт одноразовый код. Пока старый код жив, новый не выдаём.
func (s *UserService) SendCode(ctx context.Context, email string) error {
	if !domain.ValidEmail(email) {
		return domain.ErrBadParams
	}
	if _, ok := s.cache.EmailCode(ctx, email); ok {
		return domain.ErrBadParams
	}

	code, err := sixDigitCode()
	if err != nil {
		return err
	}
	if err := s.cache.SetEmailCode(ctx, email, code); err != nil {
		return err
	}
	return s.mailer.SendCode(ctx, email, code)
}

// GetUser — публичный профиль по имени.
func (s *UserService) GetUser(ctx context.Context, username string) (domain.PublicUser, error) {
	u, err := s.userByName(ctx, username)
	if err != nil {
		return domain.PublicUser{}, err
	}
	if u == nil {
		return domain.PublicUser{}, domain.ErrNotFound
	}
	return u.PublicView(), nil
}

func (s *UserService) Contact(ctx context.Context, subject, name, replyTo, content string) error {
	if strings.TrimSpace(content) == "" {
		return domain.ErrBadParams
	}
	return s.mailer.SendContact(ctx, subject, name, replyTo, content)
}

// UpdateRole — только SUPER_ADMIN; профиль в кеше сбрасывается,
// сессия пользователя отзывается, чтобы роль применилась сразу.
func (s *UserService) UpdateRole(ctx context.Context, id domain.UserID, role string) error {
	switch role {
	case domain.RoleUser, domain.RoleAdmin:
	default:
		return domain.ErrBadParams
	}
	username, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return err
	}
	s.cache.InvalidateUser(ctx, username)
	if err := s.store.Remove(ctx, username); err != nil {
		s.logger.Printf("revoke session for %s failed: %v", username, err)
	}
	return nil
}

// WebsiteConfig — публичные настройки витрины (живут только в кеше).
func (s *UserService) WebsiteConfig(ctx context.Context) domain.WebsiteConfig {
	return s.cache.WebsiteConfig(ctx)
}

// ProfileByName — полный профиль для middleware авторизации.
func (s *UserService) ProfileByName(ctx context.Context, username string) (*domain.User, error) {
	return s.userByName(ctx, username)
}

// userByName — чтение профиля сквозь кеш (вместе с хэшем пароля).
func (s *UserService) userByName(ctx context.Context, username string) (*domain.User, error) {
	if u, hit := s.cache.GetUser(ctx, username); hit {
		return u, nil
	}
	u, err := s.repo.ByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u != nil {
		s.cache.SetUser(ctx, *u)
	}
	return u, nil
}

func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
