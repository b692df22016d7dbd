package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vibe-gift/internal/core/gift"

	"github.com/go-resty/resty/v2"
)

const defaultErrorMessage = "Failed to fetch recommendations"

// StatusError 服務回傳非 2xx
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("recommendation request failed (status %d): %s", e.StatusCode, e.Message)
}

type errorBody struct {
	Error string `json:"error"`
}

// Client 推薦服務的 Go 客戶端
type Client struct {
	client *resty.Client
}

// New 以服務根網址建立客戶端
func New(baseURL string) *Client {
	return &Client{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Content-Type", "application/json").
			SetTimeout(2 * time.Minute),
	}
}

// FetchRecommendations 送出收禮人資訊並取回推薦列表
func (c *Client) FetchRecommendations(ctx context.Context, profile gift.RecipientProfile) ([]gift.Recommendation, error) {
	var recs []gift.Recommendation
	var failure errorBody

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(profile).
		SetResult(&recs).
		SetError(&failure).
		Post("/recommendations")
	if err != nil {
		// 錯誤內容無法解析時仍以狀態碼回報
		if resp != nil && resp.StatusCode() != 0 && !resp.IsSuccess() {
			return nil, &StatusError{StatusCode: resp.StatusCode(), Message: defaultErrorMessage}
		}
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if !resp.IsSuccess() {
		msg := failure.Error
		if msg == "" {
			msg = defaultErrorMessage
		}
		return nil, &StatusError{StatusCode: resp.StatusCode(), Message: msg}
	}

	if recs == nil {
		recs = []gift.Recommendation{}
	}
	return recs, nil
}
