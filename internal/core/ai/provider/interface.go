package provider

import (
	"context"
	"fmt"
	"time"
)

// Message 表示與 AI 模型的對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider 定義文字生成服務介面
type Provider interface {
	// Generate 送出 prompt，回傳模型原始文字
	Generate(ctx context.Context, prompt string) (string, error)

	// Name 服務名稱（grok / gemini）
	Name() string

	// Model 當前使用的模型名稱
	Model() string
}

// Config 定義 AI 提供者配置
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
}

// RequestError 上游呼叫失敗（傳輸錯誤或非 2xx）
type RequestError struct {
	Provider   string
	Model      string
	StatusCode int    // 傳輸錯誤時為 0
	Body       string // 上游錯誤內容
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s API error (status %d)", e.Provider, e.StatusCode)
	default:
		return fmt.Sprintf("%s request failed", e.Provider)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
