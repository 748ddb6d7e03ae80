package domain

import (
	"context"
	"time"
)

type Token = string

type TokenClaims struct {
	UserID    UserID
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Хеширование паролей
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encodedHash string) (bool, error)
}

// Управление токенами (JWT, реализация в internal/auth)
type TokenManager interface {
	Issue(ctx context.Context, id UserID, username string) (Token, TokenClaims, error)
	Parse(ctx context.Context, raw Token) (TokenClaims, error)
}

// TokenStore — «один активный токен на пользователя». Повторный Set
// перезаписывает предыдущий; Remove делает logout мгновенным: подпись
// ещё валидна, но кеш токена обязателен для прохода авторизации.
type TokenStore interface {
	Set(ctx context.Context, username string, token Token) error
	Get(ctx context.Context, username string) (Token, error)
	Remove(ctx context.Context, username string) error
}
