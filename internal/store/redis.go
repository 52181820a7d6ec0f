package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/linkdeck/linkdeck/internal/auth"
	"github.com/linkdeck/linkdeck/internal/captcha"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore is a Redis implementation of auth.SessionStore.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore creates a new Redis-backed session store.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		prefix: "session:",
	}
}

func (r *RedisSessionStore) Create(ctx context.Context, token, username string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+token, username, ttl).Err()
}

func (r *RedisSessionStore) Get(ctx context.Context, token string) (string, error) {
	username, err := r.client.Get(ctx, r.prefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", auth.ErrNoSession
		}

		return "", err
	}

	return username, nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.prefix+token).Err()
}

var _ auth.SessionStore = (*RedisSessionStore)(nil)

// RedisCaptchaStore is a Redis implementation of captcha.Store. Consume
// uses GETDEL so redemption is a single atomic operation: concurrent
// redemptions of one challenge produce exactly one winner.
type RedisCaptchaStore struct {
	client *redis.Client
	prefix string
}

// NewRedisCaptchaStore creates a new Redis-backed captcha store.
func NewRedisCaptchaStore(client *redis.Client) *RedisCaptchaStore {
	return &RedisCaptchaStore{
		client: client,
		prefix: "captcha:",
	}
}

func (r *RedisCaptchaStore) Put(ctx context.Context, id, answer string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+id, answer, ttl).Err()
}

func (r *RedisCaptchaStore) Consume(ctx context.Context, id string) (string, error) {
	answer, err := r.client.GetDel(ctx, r.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", captcha.ErrChallengeNotFound
		}

		return "", err
	}

	return answer, nil
}

var _ captcha.Store = (*RedisCaptchaStore)(nil)

// RateLimitRedisStore is a Redis implementation of ratelimit.Store
// using a sorted set per key as the sliding window.
type RateLimitRedisStore struct {
	client *redis.Client
	prefix string
}

// NewRateLimitRedisStore creates a new Redis-backed rate limit store.
func NewRateLimitRedisStore(client *redis.Client) *RateLimitRedisStore {
	return &RateLimitRedisStore{
		client: client,
		prefix: "ratelimit:",
	}
}

func (r *RateLimitRedisStore) Record(ctx context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now()
	cutoff := now.Add(-window).UnixNano()
	redisKey := r.prefix + key

	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(cutoff, 10))
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})
	count := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return count.Val(), nil
}
