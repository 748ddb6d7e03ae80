// Package cachetest содержит in-memory реализацию domain.KV для тестов.
// Каждая команда атомарна под мьютексом, поэтому на фейке честно
// проверяются конкурентные сценарии.
package cachetest

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

type entry struct {
	val      []byte
	expireAt time.Time // нулевое время — без TTL
}

func (e entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && now.After(e.expireAt)
}

// MemKV — потокобезопасный фейк KV-порта.
type MemKV struct {
	mu     sync.Mutex
	kv     map[string]entry
	hashes map[string]map[string][]byte
	sets   map[string]map[string]struct{}

	// FailAll заставляет каждую команду возвращать ErrDown —
	// для проверки fail-open поведения кеша.
	FailAll bool
}

var ErrDown = errDown{}

type errDown struct{}

func (errDown) Error() string { return "kv: connection refused" }

func New() *MemKV {
	return &MemKV{
		kv:     make(map[string]entry),
		hashes: make(map[string]map[string][]byte),
		sets:   make(map[string]map[string]struct{}),
	}
}

var _ domain.KV = (*MemKV)(nil)

func (m *MemKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return nil, ErrDown
	}
	e, ok := m.kv[key]
	if !ok || e.expired(time.Now()) {
		return nil, nil
	}
	return append([]byte(nil), e.val...), nil
}

func (m *MemKV) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return ErrDown
	}
	e := entry{val: append([]byte(nil), val...)}
	if ttl > 0 {
		e.expireAt = time.Now().Add(ttl)
	}
	m.kv[key] = e
	return nil
}

func (m *MemKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return ErrDown
	}
	for _, k := range keys {
		delete(m.kv, k)
		delete(m.hashes, k)
		delete(m.sets, k)
	}
	return nil
}

func (m *MemKV) HGet(_ context.Context, key, field string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return nil, ErrDown
	}
	v, ok := m.hashes[key][field]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemKV) HSet(_ context.Context, key, field string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return ErrDown
	}
	m.hash(key)[field] = append([]byte(nil), val...)
	return nil
}

func (m *MemKV) HDel(_ context.Context, key string, fields ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return ErrDown
	}
	for _, f := range fields {
		delete(m.hashes[key], f)
	}
	return nil
}

func (m *MemKV) HGetAll(_ context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return nil, ErrDown
	}
	out := make(map[string]string, len(m.hashes[key]))
	for f, v := range m.hashes[key] {
		out[f] = string(v)
	}
	return out, nil
}

func (m *MemKV) HSetNX(_ context.Context, key, field string, val []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return false, ErrDown
	}
	h := m.hash(key)
	if _, ok := h[field]; ok {
		return false, nil
	}
	h[field] = append([]byte(nil), val...)
	return true, nil
}

func (m *MemKV) HIncrBy(_ context.Context, key, field string, incr int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return 0, ErrDown
	}
	h := m.hash(key)
	cur, _ := strconv.ParseInt(string(h[field]), 10, 64)
	cur += incr
	h[field] = []byte(strconv.FormatInt(cur, 10))
	return cur, nil
}

func (m *MemKV) SAdd(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return ErrDown
	}
	s, ok := m.sets[key]
	if !ok {
		s = make(map[string]struct{})
		m.sets[key] = s
	}
	for _, mem := range members {
		s[mem] = struct{}{}
	}
	return nil
}

func (m *MemKV) SRandMemberN(_ context.Context, key string, count int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return nil, ErrDown
	}
	all := make([]string, 0, len(m.sets[key]))
	for mem := range m.sets[key] {
		all = append(all, mem)
	}
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if int64(len(all)) > count {
		all = all[:count]
	}
	return all, nil
}

func (m *MemKV) ScanKeys(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return nil, ErrDown
	}
	now := time.Now()
	var keys []string
	for k, e := range m.kv {
		if strings.HasPrefix(k, prefix) && !e.expired(now) {
			keys = append(keys, k)
		}
	}
	for k := range m.hashes {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *MemKV) Rename(_ context.Context, src, dst string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return false, ErrDown
	}
	if h, ok := m.hashes[src]; ok {
		m.hashes[dst] = h
		delete(m.hashes, src)
		return true, nil
	}
	if e, ok := m.kv[src]; ok && !e.expired(time.Now()) {
		m.kv[dst] = e
		delete(m.kv, src)
		return true, nil
	}
	return false, nil
}

func (m *MemKV) Ping(context.Context) error { return nil }

func (m *MemKV) Close() {}

// Expire вручную протухает ключ — вместо ожидания TTL в тестах.
func (m *MemKV) Expire(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.kv, key)
	delete(m.hashes, key)
	delete(m.sets, key)
}

// Keys возвращает все живые ключи (для ассертов).
func (m *MemKV) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var keys []string
	for k, e := range m.kv {
		if !e.expired(now) {
			keys = append(keys, k)
		}
	}
	for k := range m.hashes {
		keys = append(keys, k)
	}
	for k := range m.sets {
		keys = append(keys, k)
	}
	return keys
}

func (m *MemKV) hash(key string) map[string][]byte {
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string][]byte)
		m.hashes[key] = h
	}
	return h
}
