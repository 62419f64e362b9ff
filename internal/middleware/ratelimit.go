package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/silso/auth-backend-go/internal/httperror"
	"github.com/silso/auth-backend-go/internal/ratelimit"
)

// RateLimit 는 시간 창 기반 요청 제한 미들웨어다.
// 카운터 오류가 나면 요청을 막지 않고 통과시킨다.
func RateLimit(counter ratelimit.Counter, scope string, limit int, window time.Duration, reject func() *httperror.Error, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || counter == nil {
			c.Next()
			return
		}
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		identity := rateLimitIdentity(c)
		key := ratelimit.WindowKey(scope, identity, time.Now(), window)

		count, err := counter.Incr(c.Request.Context(), key)
		if err != nil {
			if logger != nil {
				logger.Warn("rate_limit_counter_error",
					"scope", scope,
					"identity", identity,
					"error", err,
				)
			}
			c.Next()
			return
		}

		if count > int64(limit) {
			if logger != nil {
				logger.Warn("rate_limit_exceeded",
					"scope", scope,
					"identity", identity,
					"count", count,
					"limit", limit,
					"path", c.Request.URL.Path,
				)
			}
			status, payload := httperror.Response(reject(), -1)
			c.AbortWithStatusJSON(status, payload)
			return
		}

		c.Next()
	}
}

func rateLimitIdentity(c *gin.Context) string {
	forwarded := strings.TrimSpace(c.GetHeader("X-Forwarded-For"))
	if forwarded != "" {
		ip := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if ip != "" {
			return "ip:" + ip
		}
	}

	if c.ClientIP() != "" {
		return "ip:" + c.ClientIP()
	}

	return "ip:unknown"
}
