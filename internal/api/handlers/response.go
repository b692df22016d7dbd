package handlers

import (
	"vibe-gift/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError 將錯誤轉為 JSON 回應；非自定義錯誤一律回 500
func RespondError(c *gin.Context, err error) {
	ce, ok := common.AsCustomError(err)
	if !ok {
		ce = common.ErrInternalError
	}

	_ = c.Error(err)
	common.LogDebug("回應錯誤",
		zap.String("code", ce.Code),
		zap.Int("status", ce.Status),
		zap.String("request_id", requestid.Get(c)),
	)

	body := ce.Body()
	if id := requestid.Get(c); id != "" {
		body["request_id"] = id
	}
	c.AbortWithStatusJSON(ce.Status, body)
}
