package service

import (
	"context"
	"fmt"
	"strings"

	"vibe-gift/internal/core/ai/gemini"
	"vibe-gift/internal/core/ai/grok"
	"vibe-gift/internal/core/ai/provider"
	"vibe-gift/internal/infrastructure/config"
	"vibe-gift/internal/pkg/common"

	"go.uber.org/zap"
)

// NewProvider 依設定建立生成服務，只在啟動時呼叫一次。
// 缺少金鑰時回傳 ConfigurationError，由 handler 在每次請求回報。
func NewProvider(ctx context.Context, cfg *config.Config, systemPrompt string) (provider.Provider, error) {
	name := cfg.AI.Provider
	pc := cfg.ActiveProvider()

	if pc.APIKey == "" {
		common.LogWarn("生成服務缺少金鑰", zap.String("provider", name))
		return nil, common.NewConfigurationError(fmt.Sprintf("Missing %s_API_KEY", strings.ToUpper(name)))
	}

	providerCfg := provider.Config{
		APIKey:      pc.APIKey,
		Model:       pc.Model,
		BaseURL:     pc.BaseURL,
		Temperature: pc.Temperature,
		Timeout:     pc.Timeout,
	}

	switch name {
	case config.ProviderGrok:
		return grok.NewClient(providerCfg, systemPrompt), nil
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, providerCfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", name)
	}
}
