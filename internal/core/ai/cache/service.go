package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"vibe-gift/internal/infrastructure/config"
	"vibe-gift/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const redisKeyPrefix = "image:url:"

// RedisStore 多個實例共用的快取後端
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisStore 創建 Redis 快取並測試連線
func NewRedisStore(ctx context.Context, cfg *config.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logStoreReady("redis", zap.String("addr", cfg.RedisAddr), zap.Duration("存活時間", cfg.TTL))

	return &RedisStore{client: client, ttl: cfg.TTL}, nil
}

// generateKey 生成緩存鍵
func (s *RedisStore) generateKey(query string) string {
	return redisKeyPrefix + hashString(query)
}

// Get 獲取緩存；Redis 錯誤視為未命中
func (s *RedisStore) Get(ctx context.Context, query string) (string, bool) {
	val, err := s.client.Get(ctx, s.generateKey(query)).Result()
	if err != nil {
		s.misses.Add(1)
		if !errors.Is(err, redis.Nil) {
			common.LogWarn("Redis 快取讀取失敗", zap.Error(err))
		} else {
			common.LogCacheMiss("image", query)
		}
		return "", false
	}
	s.hits.Add(1)
	common.LogCacheHit("image", query)
	return val, true
}

// Put 設置緩存；ttl 為 0 時不過期
func (s *RedisStore) Put(ctx context.Context, query, url string) {
	if query == "" || url == "" {
		return
	}
	if err := s.client.Set(ctx, s.generateKey(query), url, s.ttl).Err(); err != nil {
		common.LogWarn("Redis 快取寫入失敗", zap.Error(err))
	}
}

// Name 後端名稱
func (s *RedisStore) Name() string { return "redis" }

// Stats 獲取緩存統計信息
func (s *RedisStore) Stats() map[string]interface{} {
	return map[string]interface{}{
		"backend": s.Name(),
		"hits":    s.hits.Load(),
		"misses":  s.misses.Load(),
	}
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
