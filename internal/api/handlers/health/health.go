package health

import (
	"net/http"
	"runtime"
	"time"

	"vibe-gift/internal/core/ai/cache"
	"vibe-gift/internal/core/gift"
	"vibe-gift/internal/infrastructure/config"
	"vibe-gift/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Provider  ProviderStatus         `json:"provider"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
}

// ProviderStatus 生成服務狀態
type ProviderStatus struct {
	Name       string `json:"name"`
	Model      string `json:"model,omitempty"`
	Configured bool   `json:"configured"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	// 獲取配置
	cfg, exists := c.Get("config")
	if !exists {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}
	config, ok := cfg.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid configuration type",
		})
		return
	}

	// 獲取推薦服務
	svcValue, _ := c.Get("gift_service")
	svc, ok := svcValue.(*gift.Service)
	if !ok {
		common.LogError("Gift service not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Gift service not found",
		})
		return
	}

	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Provider: ProviderStatus{
			Name:       svc.ProviderName(),
			Model:      svc.ProviderModel(),
			Configured: svc.CheckConfiguration() == nil,
		},
	}

	if store, ok := c.Get("image_cache"); ok {
		if s, ok := store.(cache.Store); ok && s != nil {
			response.Cache = s.Stats()
		}
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查；缺少生成服務金鑰時回報 503
func ReadinessCheck(c *gin.Context) {
	if svc, ok := c.Get("gift_service"); ok {
		if s, ok := svc.(*gift.Service); ok {
			if err := s.CheckConfiguration(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "not_ready",
					"reason": err.Error(),
				})
				return
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
