package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/silso/auth-backend-go/internal/config"
	"github.com/silso/auth-backend-go/internal/httperror"
	"github.com/silso/auth-backend-go/internal/metrics"
	"github.com/silso/auth-backend-go/internal/middleware"
	"github.com/silso/auth-backend-go/internal/ratelimit"
)

// notFoundEndpoints 는 404 응답이 안내하는 대표 엔드포인트다.
var notFoundEndpoints = []string{
	"GET /health",
	"GET /api/info",
	"POST /auth/kakao/custom-token",
}

// NewRouter 는 HTTP 라우터를 구성한다.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	store *metrics.Store,
	counter ratelimit.Counter,
	authHandler *AuthHandler,
	courtHandler *CourtHandler,
) *gin.Engine {
	setGinMode(cfg.Logging.Level)

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute

	router := gin.New()
	router.Use(
		middleware.SecurityHeaders(),
		middleware.CORS(),
		middleware.RequestID(),
		middleware.RequestLogger(logger, store),
		gin.CustomRecovery(func(c *gin.Context, _ any) {
			status, payload := httperror.Response(httperror.NewInternal(
				httperror.ErrorCodeInternal,
				"Something went wrong on our end",
			), -1)
			c.AbortWithStatusJSON(status, payload)
		}),
		middleware.BodyLimit(int64(cfg.HTTP.MaxBodyMB)<<20),
		middleware.RateLimit(counter, "general", cfg.RateLimit.GeneralLimit, window,
			httperror.NewRateLimitExceeded, logger),
	)

	RegisterHealthRoutes(router, cfg, store)

	auth := router.Group("/auth")
	auth.Use(middleware.RateLimit(counter, "auth", cfg.RateLimit.AuthLimit, window,
		httperror.NewAuthRateLimitExceeded, logger))
	authHandler.RegisterRoutes(auth)

	courtHandler.RegisterRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		apiErr := httperror.NewEndpointNotFound(c.Request.Method, c.Request.URL.Path)
		status, payload := httperror.Response(apiErr, -1)
		c.JSON(status, gin.H{
			"error":               payload.Error,
			"message":             payload.Message,
			"code":                payload.Code,
			"available_endpoints": notFoundEndpoints,
		})
	})

	return router
}

func setGinMode(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
