package redisx

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shuyuzheng19/go-blog-api/internal/infra/metrics"
)

type Cache struct {
	rdb    *redis.Client
	logger *log.Logger
}

type Config struct {
	Addr     string
	DB       int
	Password string
}

func New(cfg Config, logger *log.Logger) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	return &Cache{rdb: rdb, logger: logger}
}

func (c *Cache) Ping(ctx context.Context) error {
	err := c.rdb.Ping(ctx).Err()
	if err != nil {
		c.logger.Printf("PING failed: %v", err)
	}
	return err
}

func (c *Cache) Close() {
	if c.rdb == nil {
		c.logger.Println("nothing to close")
		return
	}

	if err := c.rdb.Close(); err != nil {
		c.logger.Printf("error while closing: %v", err)
		return
	}

	c.logger.Println("closed")
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.Inc()
		return nil, nil
	}
	if err != nil {
		c.logger.Printf("GET %q: error: %v", key, err)
		return nil, err
	}
	metrics.CacheHits.Inc()
	return b, nil
}

func (c *Cache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	err := c.rdb.Set(ctx, key, val, ttl).Err()
	if err != nil {
		c.logger.Printf("SET %q failed: %v", key, err)
	}
	return err
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	n, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		c.logger.Printf("DEL %v failed: %v", keys, err)
		return err
	}
	c.logger.Printf("DEL %v: deleted=%d", keys, n)
	return nil
}

func (c *Cache) HGet(ctx context.Context, key, field string) ([]byte, error) {
	b, err := c.rdb.HGet(ctx, key, field).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.Inc()
		return nil, nil
	}
	if err != nil {
		c.logger.Printf("HGET %q %q: error: %v", key, field, err)
		return nil, err
	}
	metrics.CacheHits.Inc()
	return b, nil
}

func (c *Cache) HSet(ctx context.Context, key, field string, val []byte) error {
	err := c.rdb.HSet(ctx, key, field, val).Err()
	if err != nil {
		c.logger.Printf("HSET %q %q failed: %v", key, field, err)
	}
	return err
}

func (c *Cache) HDel(ctx context.Context, key string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	err := c.rdb.HDel(ctx, key, fields...).Err()
	if err != nil {
		c.logger.Printf("HDEL %q %v failed: %v", key, fields, err)
	}
	return err
}

func (c *Cache) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		c.logger.Printf("HGETALL %q failed: %v", key, err)
		return nil, err
	}
	return m, nil
}

// HSetNX сеет поле только если его ещё нет; выигрывает ровно один писатель.
func (c *Cache) HSetNX(ctx context.Context, key, field string, val []byte) (bool, error) {
	ok, err := c.rdb.HSetNX(ctx, key, field, val).Result()
	if err != nil {
		c.logger.Printf("HSETNX %q %q failed: %v", key, field, err)
	}
	return ok, err
}

func (c *Cache) HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error) {
	n, err := c.rdb.HIncrBy(ctx, key, field, incr).Result()
	if err != nil {
		c.logger.Printf("HINCRBY %q %q failed: %v", key, field, err)
	}
	return n, err
}

func (c *Cache) SAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	err := c.rdb.SAdd(ctx, key, args...).Err()
	if err != nil {
		c.logger.Printf("SADD %q failed: %v", key, err)
	}
	return err
}

func (c *Cache) SRandMemberN(ctx context.Context, key string, count int64) ([]string, error) {
	vals, err := c.rdb.SRandMemberN(ctx, key, count).Result()
	if err != nil {
		c.logger.Printf("SRANDMEMBER %q failed: %v", key, err)
		return nil, err
	}
	return vals, nil
}

// ScanKeys собирает ключи по префиксу курсором, без блокирующего KEYS.
func (c *Cache) ScanKeys(ctx context.Context, prefix string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := c.rdb.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			c.logger.Printf("SCAN %q failed: %v", prefix, err)
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

// Rename атомарно переносит ключ; отсутствие исходного — не ошибка.
func (c *Cache) Rename(ctx context.Context, src, dst string) (bool, error) {
	err := c.rdb.Rename(ctx, src, dst).Err()
	if err == nil {
		return true, nil
	}
	// redis отвечает "no such key", если переносить нечего
	if err.Error() == "ERR no such key" {
		return false, nil
	}
	c.logger.Printf("RENAME %q -> %q failed: %v", src, dst, err)
	return false, err
}
