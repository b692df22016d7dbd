package image

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"vibe-gift/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
)

// ErrSearchNotConfigured 缺少搜尋金鑰或 cx
var ErrSearchNotConfigured = errors.New("missing GOOGLE_CUSTOM_SEARCH_API_KEY or GOOGLE_CUSTOM_SEARCH_CX")

// SearchItem 單筆圖片搜尋結果；尺寸未知時為 0
type SearchItem struct {
	Link   string
	Width  int
	Height int
}

// searchResponse Google Custom Search 回應（只取需要的欄位）
type searchResponse struct {
	Items []struct {
		Link  string `json:"link"`
		Image struct {
			Height int `json:"height"`
			Width  int `json:"width"`
		} `json:"image"`
	} `json:"items"`
}

// SearchClient Google Custom Search 圖片搜尋
type SearchClient struct {
	client *resty.Client
	config config.SearchConfig
}

// NewSearchClient 創建搜尋客戶端
func NewSearchClient(cfg config.SearchConfig) *SearchClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.googleapis.com/customsearch/v1"
	}
	if cfg.Num <= 0 {
		cfg.Num = 5
	}
	if cfg.ImgType == "" {
		cfg.ImgType = "photo"
	}

	client := resty.New()
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &SearchClient{client: client, config: cfg}
}

// Configured 是否具備搜尋憑證
func (s *SearchClient) Configured() bool {
	return s.config.Configured()
}

// Search 以圖片模式查詢，回傳排序後的結果
func (s *SearchClient) Search(ctx context.Context, query string) ([]SearchItem, error) {
	if !s.Configured() {
		return nil, ErrSearchNotConfigured
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":        s.config.APIKey,
			"cx":         s.config.CX,
			"q":          query,
			"searchType": "image",
			"num":        strconv.Itoa(s.config.Num),
			"imgType":    s.config.ImgType,
		}).
		Get(s.config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("image search request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("Google Custom Search error: %d", resp.StatusCode())
	}

	var result searchResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse image search response: %w", err)
	}

	items := make([]SearchItem, 0, len(result.Items))
	for _, it := range result.Items {
		items = append(items, SearchItem{
			Link:   strings.TrimSpace(it.Link),
			Width:  it.Image.Width,
			Height: it.Image.Height,
		})
	}
	return items, nil
}
