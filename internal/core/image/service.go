package image

import (
	"context"
	"errors"

	"vibe-gift/internal/core/ai/cache"
	"vibe-gift/internal/infrastructure/config"
	"vibe-gift/internal/pkg/common"

	"go.uber.org/zap"
)

// Searcher 圖片搜尋來源
type Searcher interface {
	Configured() bool
	Search(ctx context.Context, query string) ([]SearchItem, error)
}

// Checker 圖片網址可用性檢查
type Checker interface {
	Probe(ctx context.Context, url string) bool
}

// Resolver 為推薦項目找出一張可用的商品圖片。
// 任何失敗都只記錄並回傳 ""，不會中斷請求。
type Resolver struct {
	searcher  Searcher
	checker   Checker
	cache     cache.Store
	filter    FilterOptions
	styleHint string
}

// NewResolver 創建圖片解析器
func NewResolver(searcher Searcher, checker Checker, store cache.Store, filter FilterOptions, styleHint string) *Resolver {
	if store == nil {
		store = cache.NewMemoryStore()
	}
	return &Resolver{
		searcher:  searcher,
		checker:   checker,
		cache:     store,
		filter:    filter,
		styleHint: styleHint,
	}
}

// NewResolverFromConfig 使用 Google Custom Search 與 HEAD 探測建立解析器
func NewResolverFromConfig(cfg *config.Config, store cache.Store) *Resolver {
	return NewResolver(
		NewSearchClient(cfg.Search),
		NewProber(cfg.Image.ProbeTimeout),
		store,
		FilterOptions{
			MinRatio:      cfg.Image.MinRatio,
			MaxRatio:      cfg.Image.MaxRatio,
			MinDimension:  cfg.Image.MinDimension,
			MaxCandidates: cfg.Image.MaxCandidates,
		},
		cfg.Image.StyleHint,
	)
}

// Resolve 回傳第一個通過探測的圖片網址，找不到時回傳 ""
func (r *Resolver) Resolve(ctx context.Context, name, keywords string) string {
	query := BuildQuery(name, keywords, r.styleHint)
	if query == "" {
		return ""
	}

	if !r.searcher.Configured() {
		common.LogImageResolution("error", ErrSearchNotConfigured.Error())
		return ""
	}

	if url, ok := r.cache.Get(ctx, query); ok && url != "" {
		return url
	}

	items, err := r.searcher.Search(ctx, query)
	if err != nil {
		level := "error"
		if errors.Is(err, context.Canceled) {
			level = "debug"
		}
		common.LogImageResolution(level, "Error fetching image",
			zap.String("query", query),
			zap.Error(err),
		)
		return ""
	}

	candidates := FilterCandidates(items, r.filter)
	for _, link := range candidates {
		if r.checker.Probe(ctx, link) {
			r.cache.Put(ctx, query, link)
			return link
		}
	}

	common.LogImageResolution("debug", "No reachable image candidate",
		zap.String("query", query),
		zap.Int("candidates", len(candidates)),
	)
	return ""
}
