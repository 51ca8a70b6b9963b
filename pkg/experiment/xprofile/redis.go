package xprofile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix Redis key 默认前缀，完整 key 为 prefix + userID
const DefaultKeyPrefix = "xsplit:profile:"

// RedisOption Redis 存储配置
type RedisOption func(*Redis)

// WithKeyPrefix 设置 key 前缀
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// WithTTL 每次保存后刷新用户 hash 的过期时间，非正值表示不过期
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		r.ttl = max(ttl, 0)
	}
}

// Redis 每个用户一个 hash
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedis 创建 Redis 存储。client 的生命周期由调用方管理。
func NewRedis(client redis.UniversalClient, opts ...RedisOption) (*Redis, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	r := &Redis{client: client, prefix: DefaultKeyPrefix}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Redis) key(userID string) string {
	return r.prefix + userID
}

// Lookup 查询保存的变体
func (r *Redis) Lookup(ctx context.Context, userID, campaignKey string) (string, bool, error) {
	if err := validKey(userID, campaignKey); err != nil {
		return "", false, err
	}
	v, err := r.client.HGet(ctx, r.key(userID), campaignKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("xprofile: redis lookup: %w", err)
	}
	return v, true, nil
}

// Save 保存变体
func (r *Redis) Save(ctx context.Context, userID, campaignKey, variation string) error {
	if err := validKey(userID, campaignKey); err != nil {
		return err
	}
	key := r.key(userID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, campaignKey, variation)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("xprofile: redis save: %w", err)
	}
	return nil
}
