package domain

import "regexp"

var (
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{4,32}$`)
	imageURLRe = regexp.MustCompile(`(?i)^https?://\S+\.(png|jpe?g|gif|webp|svg)(\?\S*)?$`)
)

func ValidEmail(s string) bool    { return emailRe.MatchString(s) }
func ValidUsername(s string) bool { return usernameRe.MatchString(s) }

// Пароль: минимум 8 символов; детальная политика — на фронте.
func ValidPassword(s string) bool { return len(s) >= 8 }

// ValidImageURL — обложки принимаем только прямыми ссылками на изображение.
func ValidImageURL(s string) bool { return imageURLRe.MatchString(s) }
