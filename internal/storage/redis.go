package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCookieJar keeps cookies as plain keys; expiry is the key TTL.
type RedisCookieJar struct {
	Client *redis.Client
	Prefix string
}

func NewRedisCookieJar(client *redis.Client, prefix string) *RedisCookieJar {
	return &RedisCookieJar{Client: client, Prefix: prefix}
}

func (j *RedisCookieJar) CookieKey(name string) string {
	return j.Prefix + "cookie:" + name
}

func (j *RedisCookieJar) SetCookie(ctx context.Context, name, value string, ttl time.Duration) error {
	return j.Client.Set(ctx, j.CookieKey(name), value, ttl).Err()
}

func (j *RedisCookieJar) Cookie(ctx context.Context, name string) (string, error) {
	value, err := j.Client.Get(ctx, j.CookieKey(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (j *RedisCookieJar) DeleteCookie(ctx context.Context, name string) error {
	return j.Client.Del(ctx, j.CookieKey(name)).Err()
}

var _ CookieJar = (*RedisCookieJar)(nil)
