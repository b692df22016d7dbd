package grok

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vibe-gift/internal/core/ai/provider"
	"vibe-gift/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// Name 服務名稱
	Name = "grok"

	defaultBaseURL = "https://api.x.ai/v1"
	defaultModel   = "grok-3"
)

// Client Grok chat-completions 客戶端
type Client struct {
	client       *resty.Client
	config       provider.Config
	systemPrompt string
}

// chatRequest 表示 API 請求
type chatRequest struct {
	Model       string             `json:"model"`
	Messages    []provider.Message `json:"messages"`
	Temperature float64            `json:"temperature"`
}

// chatResponse Grok 響應結構
type chatResponse struct {
	Choices []struct {
		Message provider.Message `json:"message"`
	} `json:"choices"`
}

// NewClient 創建新的 Grok 客戶端
func NewClient(cfg provider.Config, systemPrompt string) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))

	return &Client{
		client:       client,
		config:       cfg,
		systemPrompt: systemPrompt,
	}
}

// Name 服務名稱
func (c *Client) Name() string { return Name }

// Model 當前模型
func (c *Client) Model() string { return c.config.Model }

// Generate 送出一次請求，不重試
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	messages := make([]provider.Message, 0, 2)
	if c.systemPrompt != "" {
		messages = append(messages, provider.Message{Role: "system", Content: c.systemPrompt})
	}
	messages = append(messages, provider.Message{Role: "user", Content: prompt})

	req := chatRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: c.config.Temperature,
	}

	common.LogDebug("Sending request to Grok",
		zap.String("model", req.Model),
		zap.Int("prompt_length", len(prompt)),
	)

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return "", &provider.RequestError{
			Provider: Name,
			Model:    c.config.Model,
			Err:      fmt.Errorf("failed to send request to Grok: %w", err),
		}
	}

	if !resp.IsSuccess() {
		common.LogWarn("Grok API returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", c.config.Model),
		)
		return "", &provider.RequestError{
			Provider:   Name,
			Model:      c.config.Model,
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", &provider.RequestError{
			Provider:   Name,
			Model:      c.config.Model,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("failed to parse Grok response: %w", err),
		}
	}

	common.LogDebug("Grok response received",
		zap.String("model", c.config.Model),
		zap.Int("choices", len(result.Choices)),
		zap.Duration("耗時", time.Since(start)),
	)

	// 沒有 choices 時回傳空字串，由後續解析回報格式錯誤
	if len(result.Choices) == 0 {
		return "", nil
	}
	return result.Choices[0].Message.Content, nil
}
