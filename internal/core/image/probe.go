package image

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"vibe-gift/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Prober 以 HEAD 請求確認圖片網址可用
type Prober struct {
	client  *resty.Client
	timeout time.Duration
}

// NewProber 創建探測器，跟隨重新導向
func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	client := resty.New().
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	return &Prober{client: client, timeout: timeout}
}

// Probe 回應為 2xx 且 Content-Type 為 image/* 時才算成功
func (p *Prober) Probe(ctx context.Context, url string) bool {
	if url == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.R().
		SetContext(ctx).
		Head(url)
	if err != nil {
		// 逾時與取消屬預期情況，不記錄
		if isExpectedProbeError(err) {
			return false
		}
		common.LogImageResolution("warn", "Failed to check image URL",
			zap.String("url", common.Truncate(url, 100)),
			zap.Error(err),
		)
		return false
	}

	contentType := strings.ToLower(resp.Header().Get("Content-Type"))
	return resp.IsSuccess() && strings.HasPrefix(contentType, "image/")
}

func isExpectedProbeError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
