package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenCache — минимальный контракт кэша refresh-токенов.
// Ключ — UUID пользователя, значение — строка refresh-токена.
// На пользователя живёт ровно одна запись: Put перезаписывает предыдущую.
type TokenCache interface {
	// Put сохраняет токен с TTL, перезаписывая существующую запись.
	Put(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) error
	// Get возвращает токен и признак его наличия в кэше.
	Get(ctx context.Context, userID uuid.UUID) (string, bool, error)
	// Delete удаляет запись; отсутствие записи не является ошибкой.
	Delete(ctx context.Context, userID uuid.UUID) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "auth:tokens:".
func NewRedisCache(redisURL, prefix string) (TokenCache, error) {
	const op = "cache.NewRedisCache"

	if prefix == "" {
		prefix = "auth:tokens:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(userID uuid.UUID) string { return c.prefix + userID.String() }

func (c *redisCache) Put(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) error {
	const op = "cache.Put"

	if err := c.rdb.Set(ctx, c.key(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *redisCache) Get(ctx context.Context, userID uuid.UUID) (string, bool, error) {
	const op = "cache.Get"

	token, err := c.rdb.Get(ctx, c.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	return token, true, nil
}

func (c *redisCache) Delete(ctx context.Context, userID uuid.UUID) error {
	const op = "cache.Delete"

	if err := c.rdb.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *redisCache) Close() error { return c.rdb.Close() }
