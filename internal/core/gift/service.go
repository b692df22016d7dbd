package gift

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vibe-gift/internal/core/ai/provider"
	"vibe-gift/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// rawSnippetLimit 錯誤回應中 raw 欄位的最大字元數
const rawSnippetLimit = 800

// ImageResolver 為單一推薦找出圖片；找不到時回傳 ""
type ImageResolver interface {
	Resolve(ctx context.Context, name, keywords string) string
}

// Options 推薦數量設定
type Options struct {
	Count         int
	MinCount      int
	ImageKeywords bool
}

// Service 推薦流程：prompt → 生成服務 → 解析 → 驗證 → 圖片
type Service struct {
	provider     provider.Provider
	providerErr  error
	providerName string
	resolver     ImageResolver
	options      Options
}

// NewService 創建推薦服務。
// providerErr 為啟動時建立生成服務的錯誤（例如缺少金鑰），會在每次請求回報。
func NewService(p provider.Provider, providerErr error, providerName string, resolver ImageResolver, opts Options) *Service {
	if opts.Count <= 0 {
		opts.Count = 5
	}
	if opts.MinCount <= 0 || opts.MinCount > opts.Count {
		opts.MinCount = opts.Count
	}
	if p != nil && providerName == "" {
		providerName = p.Name()
	}
	return &Service{
		provider:     p,
		providerErr:  providerErr,
		providerName: providerName,
		resolver:     resolver,
		options:      opts,
	}
}

// ProviderName 生成服務名稱
func (s *Service) ProviderName() string { return s.providerName }

// ProviderModel 生成服務模型，未設定時為空
func (s *Service) ProviderModel() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Model()
}

// CheckConfiguration 回報啟動時的設定錯誤
func (s *Service) CheckConfiguration() error {
	if s.providerErr != nil {
		if _, ok := common.AsCustomError(s.providerErr); ok {
			return s.providerErr
		}
		return common.NewError(common.ErrCodeConfiguration, s.providerErr.Error(), http.StatusInternalServerError, s.providerErr)
	}
	if s.provider == nil {
		return common.NewConfigurationError(fmt.Sprintf("Missing %s_API_KEY", s.upperName()))
	}
	return nil
}

func (s *Service) upperName() string {
	return strings.ToUpper(s.providerName)
}

// Recommend 執行完整推薦流程。階段 1 至 4 的錯誤中止整個請求；圖片失敗只影響該項目。
func (s *Service) Recommend(ctx context.Context, profile RecipientProfile) ([]Recommendation, error) {
	if err := s.CheckConfiguration(); err != nil {
		return nil, err
	}

	prompt := BuildPrompt(profile, PromptOptions{
		Count:         s.options.Count,
		ImageKeywords: s.options.ImageKeywords,
	})

	start := time.Now()
	raw, err := s.provider.Generate(ctx, prompt)
	common.LogAICall(s.providerName, s.provider.Model(), time.Since(start), err, common.RequestIDFromContext(ctx))
	if err != nil {
		return nil, common.NewProviderRequestError(fmt.Sprintf("%s request failed", s.upperName()), err).
			WithField("details", err.Error()).
			WithField("model", s.provider.Model()).
			WithField("provider", s.providerName)
	}

	value, err := Extract(raw)
	if err != nil {
		common.LogWarn("無法解析模型回應",
			zap.String("provider", s.providerName),
			zap.Int("raw_length", len(raw)),
			zap.Error(err),
		)
		return nil, common.NewMalformedResponseError(fmt.Sprintf("Failed to parse %s response", s.upperName()), err).
			WithField("raw", common.Truncate(raw, rawSnippetLimit))
	}

	recs := Coerce(value)
	if len(recs) < s.options.MinCount {
		common.LogWarn("有效推薦數量不足",
			zap.String("provider", s.providerName),
			zap.Int("valid", len(recs)),
			zap.Int("min", s.options.MinCount),
		)
		return nil, common.NewInsufficientRecommendationsError(fmt.Sprintf("%s returned insufficient recommendations", s.upperName())).
			WithField("raw", common.Truncate(raw, rawSnippetLimit))
	}
	if len(recs) > s.options.Count {
		recs = recs[:s.options.Count]
	}

	s.resolveImages(ctx, recs)
	return recs, nil
}

// resolveImages 每個推薦一個 goroutine，結果寫回原位置
func (s *Service) resolveImages(ctx context.Context, recs []Recommendation) {
	if s.resolver == nil {
		for i := range recs {
			recs[i].Image = ""
		}
		return
	}

	var g errgroup.Group
	for i := range recs {
		i := i
		g.Go(func() error {
			recs[i].Image = s.resolver.Resolve(ctx, recs[i].Name, recs[i].ImageKeywords)
			return nil
		})
	}
	_ = g.Wait()

	resolved := 0
	for _, r := range recs {
		if r.Image != "" {
			resolved++
		}
	}
	common.LogDebug("圖片解析完成",
		zap.Int("total", len(recs)),
		zap.Int("resolved", resolved),
	)
}
