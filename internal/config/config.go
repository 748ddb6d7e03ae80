package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort string `mapstructure:"APP_PORT"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     int    `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBScheme   string `mapstructure:"DB_SCHEME"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// --- JWT ---
	TokenSecret     string `mapstructure:"TOKEN_SECRET"`
	TokenIssuer     string `mapstructure:"TOKEN_ISSUER"`
	TokenExpireDays int    `mapstructure:"TOKEN_EXPIRE_DAYS"`

	// --- кеш листингов ---
	BlogPageCache       bool `mapstructure:"BLOG_PAGE_CACHE"`
	BlogPageCacheExpire int  `mapstructure:"BLOG_PAGE_CACHE_EXPIRE"` // часы

	// --- Meilisearch ---
	MeiliHost   string `mapstructure:"MEILI_HOST"`
	MeiliAPIKey string `mapstructure:"MEILI_API_KEY"`
	MeiliIndex  string `mapstructure:"MEILI_INDEX"`

	// --- SMTP ---
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`
	MyEmail      string `mapstructure:"MY_EMAIL"`

	// --- S3 (файлы) ---
	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3Region    string `mapstructure:"S3_REGION"`
	S3Bucket    string `mapstructure:"S3_BUCKET"`
	S3AccessKey string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey string `mapstructure:"S3_SECRET_KEY"`
	S3UseSSL    bool   `mapstructure:"S3_USE_SSL"`
	S3PathStyle bool   `mapstructure:"S3_PATH_STYLE"`
	S3PublicURL string `mapstructure:"S3_PUBLIC_URL"`
}

// String реализует интерфейс Stringer
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  AppPort: %s\n", c.AppPort))
	sb.WriteString(fmt.Sprintf("  DBHost: %s\n", c.DBHost))
	sb.WriteString(fmt.Sprintf("  DBPort: %d\n", c.DBPort))
	sb.WriteString(fmt.Sprintf("  DBUser: %s\n", c.DBUser))
	sb.WriteString(fmt.Sprintf("  DBName: %s\n", c.DBName))
	sb.WriteString(fmt.Sprintf("  DBScheme: %s\n", c.DBScheme))
	sb.WriteString(fmt.Sprintf("  RedisAddr: %s\n", c.RedisAddr))
	sb.WriteString(fmt.Sprintf("  RedisDB: %d\n", c.RedisDB))
	sb.WriteString(fmt.Sprintf("  MeiliHost: %s\n", c.MeiliHost))
	sb.WriteString(fmt.Sprintf("  MeiliIndex: %s\n", c.MeiliIndex))
	sb.WriteString(fmt.Sprintf("  SMTPHost: %s:%d\n", c.SMTPHost, c.SMTPPort))
	sb.WriteString(fmt.Sprintf("  S3Endpoint: %s\n", c.S3Endpoint))
	sb.WriteString(fmt.Sprintf("  S3Bucket: %s\n", c.S3Bucket))
	sb.WriteString(fmt.Sprintf("  BlogPageCache: %v (expire=%dh)\n", c.BlogPageCache, c.BlogPageCacheExpire))
	sb.WriteString(fmt.Sprintf("  TokenExpireDays: %d\n", c.TokenExpireDays))

	// секреты маскируем
	for name, v := range map[string]string{
		"DBPassword":    c.DBPassword,
		"RedisPassword": c.RedisPassword,
		"TokenSecret":   c.TokenSecret,
		"MeiliAPIKey":   c.MeiliAPIKey,
		"SMTPPassword":  c.SMTPPassword,
		"S3AccessKey":   c.S3AccessKey,
		"S3SecretKey":   c.S3SecretKey,
	} {
		if v != "" {
			sb.WriteString(fmt.Sprintf("  %s: ********\n", name))
		} else {
			sb.WriteString(fmt.Sprintf("  %s: (empty)\n", name))
		}
	}

	return sb.String()
}

// LoadFromEnv загружает конфигурацию из переменных окружения
func LoadFromEnv() (*Config, error) {
	// .env только для локальной разработки
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, errors.New("failed to load .env")
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	// Регистрируем интересующие ключи окружения
	keys := []string{
		"APP_ENV", "APP_PORT",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SCHEME",
		"REDIS_ADDR", "REDIS_DB", "REDIS_PASSWORD",
		"TOKEN_SECRET", "TOKEN_ISSUER", "TOKEN_EXPIRE_DAYS",
		"BLOG_PAGE_CACHE", "BLOG_PAGE_CACHE_EXPIRE",
		"MEILI_HOST", "MEILI_API_KEY", "MEILI_INDEX",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "SMTP_FROM", "MY_EMAIL",
		"S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY", "S3_SECRET_KEY",
		"S3_USE_SSL", "S3_PATH_STYLE", "S3_PUBLIC_URL",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_SCHEME", "public")
	v.SetDefault("TOKEN_EXPIRE_DAYS", 7)
	v.SetDefault("BLOG_PAGE_CACHE_EXPIRE", 6)
	v.SetDefault("MEILI_INDEX", "blogs")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
