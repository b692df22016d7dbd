package api

import (
	"context"
	"time"

	"vibe-gift/internal/api/handlers"
	"vibe-gift/internal/api/handlers/health"
	"vibe-gift/internal/api/handlers/order"
	"vibe-gift/internal/api/handlers/recommendation"
	"vibe-gift/internal/api/middleware"
	"vibe-gift/internal/core/ai/cache"
	"vibe-gift/internal/core/ai/service"
	"vibe-gift/internal/core/gift"
	"vibe-gift/internal/core/image"
	"vibe-gift/internal/infrastructure/config"
	"vibe-gift/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 建立生成服務、圖片解析器與推薦服務後設置路由
func SetupRouter(ctx context.Context, cfg *config.Config, store cache.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 缺少金鑰不阻止啟動，錯誤交給推薦服務在每次請求回報
	p, providerErr := service.NewProvider(ctx, cfg, gift.SystemInstruction)
	if providerErr != nil {
		if _, ok := common.AsCustomError(providerErr); !ok {
			return nil, providerErr
		}
	}

	resolver := image.NewResolverFromConfig(cfg, store)
	if !cfg.Search.Configured() {
		common.LogWarn("圖片搜尋未設定，推薦將不含圖片")
	}

	svc := gift.NewService(p, providerErr, cfg.AI.Provider, resolver, gift.Options{
		Count:         cfg.Recommendation.Count,
		MinCount:      cfg.Recommendation.MinCount,
		ImageKeywords: cfg.Recommendation.ImageKeywords,
	})

	common.LogInfo("Initializing services",
		zap.String("provider", svc.ProviderName()),
		zap.String("model", svc.ProviderModel()),
		zap.String("cache_backend", store.Name()),
		zap.Int("count", cfg.Recommendation.Count),
		zap.Int("min_count", cfg.Recommendation.MinCount),
	)

	return NewRouter(cfg, svc, store), nil
}

// NewRouter 註冊中間件與路由
func NewRouter(cfg *config.Config, svc *gift.Service, store cache.Store) *gin.Engine {
	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(requestid.New())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	// CORS 設置
	router.Use(cors.New(corsConfig(cfg.CORS.AllowOrigins)))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 注入設定與服務
	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Set("gift_service", svc)
		if store != nil {
			c.Set("image_cache", store)
		}
		c.Next()
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	recHandler := recommendation.NewHandler(svc)
	router.POST("/recommendations", recHandler.HandleRecommend)
	router.POST("/orders", order.HandlePlaceOrder)

	// 與前端既有路徑相容
	api := router.Group("/api")
	{
		api.POST("/recommendations", recHandler.HandleRecommend)
		api.POST("/orders", order.HandlePlaceOrder)
	}

	router.NoRoute(func(c *gin.Context) {
		handlers.RespondError(c, common.ErrNotFound)
	})

	common.LogInfo("Router setup completed successfully",
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}

// corsConfig 未設定或包含 * 時允許所有來源
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	return c
}
