package recommendation

import (
	"context"
	"errors"
	"io"
	"net/http"

	"vibe-gift/internal/api/handlers"
	"vibe-gift/internal/core/gift"
	"vibe-gift/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 推薦請求處理器
type Handler struct {
	service *gift.Service
}

// NewHandler 創建推薦處理器
func NewHandler(service *gift.Service) *Handler {
	return &Handler{service: service}
}

// HandleRecommend 驗證設定 → 解析請求 → 生成 → 解析回應 → 驗證 → 圖片 → 回應
func (h *Handler) HandleRecommend(c *gin.Context) {
	requestID := requestid.Get(c)

	if err := h.service.CheckConfiguration(); err != nil {
		common.LogError("生成服務設定不完整",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		handlers.RespondError(c, err)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":    "Request body too large",
				"code":     common.ErrCodeRequestTooLarge,
				"max_size": maxErr.Limit,
			})
			return
		}
		handlers.RespondError(c, common.NewBadRequestError("Invalid JSON body", err))
		return
	}

	profile, err := gift.ParseProfile(body)
	if err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		handlers.RespondError(c, err)
		return
	}

	common.LogInfo("開始處理禮物推薦請求",
		zap.String("request_id", requestID),
		zap.String("age_group", profile.AgeGroup),
		zap.String("relationship", profile.Relationship),
		zap.String("budget", profile.Budget),
	)

	recs, err := h.service.Recommend(c.Request.Context(), profile)
	if err != nil {
		// 整體請求逾時由 Timeout 中間件回 504
		if errors.Is(c.Request.Context().Err(), context.DeadlineExceeded) {
			common.LogWarn("推薦請求逾時",
				zap.Error(err),
				zap.String("request_id", requestID),
			)
			return
		}
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recs)
}
