package order

import (
	"net/http"
	"time"

	"vibe-gift/internal/api/handlers"
	"vibe-gift/internal/core/gift"
	"vibe-gift/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// now 可在測試中替換
var now = time.Now

// HandlePlaceOrder 模擬下單：驗證配送資訊後回傳確認單，不保存任何資料
func HandlePlaceOrder(c *gin.Context) {
	requestID := requestid.Get(c)

	var req gift.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("訂單請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		handlers.RespondError(c, common.NewBadRequestError("Invalid request format", err).
			WithField("details", err.Error()))
		return
	}

	order, err := gift.PlaceOrder(req, now())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	common.LogInfo("訂單已確認",
		zap.String("order_id", order.OrderID),
		zap.String("gift", order.Gift.Name),
		zap.String("request_id", requestID),
	)

	c.JSON(http.StatusCreated, order)
}
