package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"vibe-gift/internal/pkg/common"

	"go.uber.org/zap"
)

// MemoryStore 行程內快取，條目只增不減，生命週期與行程相同
type MemoryStore struct {
	store  sync.Map
	size   atomic.Int64
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryStore 創建行程內快取
func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{}
	logStoreReady("memory")
	return m
}

// Get 獲取緩存值
func (m *MemoryStore) Get(_ context.Context, query string) (string, bool) {
	if v, ok := m.store.Load(query); ok {
		m.hits.Add(1)
		common.LogCacheHit("image", query)
		return v.(string), true
	}
	m.misses.Add(1)
	common.LogCacheMiss("image", query)
	return "", false
}

// Put 設置緩存值（後寫入者覆蓋，值相同時無影響）
func (m *MemoryStore) Put(_ context.Context, query, url string) {
	if query == "" || url == "" {
		return
	}
	if _, loaded := m.store.Swap(query, url); !loaded {
		m.size.Add(1)
	}
	common.LogDebug("快取已儲存", zap.String("鍵", query))
}

// Name 後端名稱
func (m *MemoryStore) Name() string { return "memory" }

// Stats 獲取緩存統計信息
func (m *MemoryStore) Stats() map[string]interface{} {
	hits, misses := m.hits.Load(), m.misses.Load()
	ratio := 0.0
	if hits+misses > 0 {
		ratio = float64(hits) / float64(hits+misses)
	}
	return map[string]interface{}{
		"backend":   m.Name(),
		"size":      m.size.Load(),
		"hits":      hits,
		"misses":    misses,
		"hit_ratio": ratio,
	}
}

// Close 關閉緩存
func (m *MemoryStore) Close() error {
	common.LogInfo("圖片快取已關閉",
		zap.Int64("命中次數", m.hits.Load()),
		zap.Int64("未命中次數", m.misses.Load()),
	)
	return nil
}
