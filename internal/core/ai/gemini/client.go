package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vibe-gift/internal/core/ai/provider"
	"vibe-gift/internal/pkg/common"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	// Name 服務名稱
	Name = "gemini"

	defaultModel = "gemini-2.0-flash"
)

// Client Gemini 結構化輸出客戶端
type Client struct {
	client *genai.Client
	config provider.Config
}

// ResolveModel 去除 models/ 前綴，空值時使用預設模型
func ResolveModel(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return defaultModel
	}
	return strings.TrimPrefix(model, "models/")
}

// NewClient 創建新的 Gemini 客戶端
func NewClient(ctx context.Context, cfg provider.Config) (*Client, error) {
	cfg.Model = ResolveModel(cfg.Model)

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{client: client, config: cfg}, nil
}

// Name 服務名稱
func (c *Client) Name() string { return Name }

// Model 當前模型
func (c *Client) Model() string { return c.config.Model }

// Generate 要求 JSON 輸出，回傳模型文字
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	genConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(float32(c.config.Temperature)),
	}

	common.LogDebug("Sending request to Gemini",
		zap.String("model", c.config.Model),
		zap.Int("prompt_length", len(prompt)),
	)

	result, err := c.client.Models.GenerateContent(ctx, c.config.Model, genai.Text(prompt), genConfig)
	if err != nil {
		reqErr := &provider.RequestError{
			Provider: Name,
			Model:    c.config.Model,
			Err:      err,
		}
		var apiErr genai.APIError
		var apiErrPtr *genai.APIError
		switch {
		case errors.As(err, &apiErr):
			reqErr.StatusCode = apiErr.Code
			reqErr.Body = apiErr.Message
		case errors.As(err, &apiErrPtr):
			reqErr.StatusCode = apiErrPtr.Code
			reqErr.Body = apiErrPtr.Message
		}
		common.LogWarn("Gemini request failed",
			zap.String("model", c.config.Model),
			zap.Int("status_code", reqErr.StatusCode),
			zap.Error(err),
		)
		return "", reqErr
	}

	if result == nil {
		return "", nil
	}
	return result.Text(), nil
}
