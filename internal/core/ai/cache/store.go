package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"vibe-gift/internal/infrastructure/config"
	"vibe-gift/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 圖片網址快取：查詢字串 → 已驗證的圖片網址
type Store interface {
	// Get 查詢快取，未命中時回傳 false
	Get(ctx context.Context, query string) (string, bool)
	// Put 寫入快取，同一鍵重複寫入無副作用
	Put(ctx context.Context, query, url string)
	Name() string
	Stats() map[string]interface{}
	Close() error
}

// NewStore 依設定建立快取後端，只在啟動時呼叫一次
func NewStore(ctx context.Context, cfg *config.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case "", config.CacheBackendMemory:
		return NewMemoryStore(), nil
	case config.CacheBackendRedis:
		store, err := NewRedisStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// hashString 計算字符串的 SHA-256 哈希值
func hashString(s string) string {
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])
}

func logStoreReady(name string, fields ...zap.Field) {
	common.LogInfo("圖片快取已初始化", append([]zap.Field{zap.String("後端", name)}, fields...)...)
}
