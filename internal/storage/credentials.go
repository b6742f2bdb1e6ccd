package storage

import (
	"context"
	"sync"
	"time"
)

// CookieJar holds short-lived values with an expiry, the way a browser cookie
// does. A missing or expired value reads back as "".
type CookieJar interface {
	SetCookie(ctx context.Context, name, value string, ttl time.Duration) error
	Cookie(ctx context.Context, name string) (string, error)
	DeleteCookie(ctx context.Context, name string) error
}

// LocalStorage is a durable key-value store with no expiry management.
type LocalStorage interface {
	SetItem(ctx context.Context, key, value string) error
	Item(ctx context.Context, key string) (string, error)
	RemoveItem(ctx context.Context, key string) error
}

type memoryCookie struct {
	value   string
	expires time.Time
}

type MemoryCookieJar struct {
	mu      sync.Mutex
	cookies map[string]memoryCookie
	now     func() time.Time
}

func NewMemoryCookieJar() *MemoryCookieJar {
	return &MemoryCookieJar{
		cookies: make(map[string]memoryCookie),
		now:     time.Now,
	}
}

func (j *MemoryCookieJar) SetCookie(_ context.Context, name, value string, ttl time.Duration) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	cookie := memoryCookie{value: value}
	if ttl > 0 {
		cookie.expires = j.now().Add(ttl)
	}
	j.cookies[name] = cookie
	return nil
}

func (j *MemoryCookieJar) Cookie(_ context.Context, name string) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	cookie, ok := j.cookies[name]
	if !ok {
		return "", nil
	}
	if !cookie.expires.IsZero() && j.now().After(cookie.expires) {
		delete(j.cookies, name)
		return "", nil
	}
	return cookie.value, nil
}

func (j *MemoryCookieJar) DeleteCookie(_ context.Context, name string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.cookies, name)
	return nil
}

type MemoryLocalStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryLocalStorage() *MemoryLocalStorage {
	return &MemoryLocalStorage{items: make(map[string]string)}
}

func (s *MemoryLocalStorage) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *MemoryLocalStorage) Item(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items[key], nil
}

func (s *MemoryLocalStorage) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

var (
	_ CookieJar    = (*MemoryCookieJar)(nil)
	_ LocalStorage = (*MemoryLocalStorage)(nil)
)
