package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/silso/auth-backend-go/internal/config"
	"github.com/silso/auth-backend-go/internal/metrics"
)

// apiEndpoints 는 /api/info가 안내하는 엔드포인트 목록이다.
var apiEndpoints = []string{
	"GET /health - Health check",
	"GET /api/info - API information",
	"POST /auth/kakao/custom-token - Kakao authentication",
	"POST /auth/kakao/exchange-code - Exchange authorization code for access token",
	"POST /court/generate-conclusion - Generate AI court session conclusion",
}

var startedAt = time.Now()

// RegisterHealthRoutes 는 상태 확인 라우트를 등록한다.
func RegisterHealthRoutes(router *gin.Engine, cfg *config.Config, store *metrics.Store) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "OK",
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
			"service":        cfg.Service.Name,
			"version":        cfg.Service.Version,
			"environment":    cfg.Service.Environment,
			"uptime_seconds": int64(time.Since(startedAt).Seconds()),
		})
	})

	router.GET("/api/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     cfg.Service.Name,
			"version":     cfg.Service.Version,
			"endpoints":   apiEndpoints,
			"environment": cfg.Service.Environment,
		})
	})

	if store != nil {
		router.GET("/metrics", gin.WrapH(store.Handler()))
	}
}
