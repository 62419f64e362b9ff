package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SecurityHeaders 는 모든 응답에 보안 헤더를 붙이는 미들웨어다.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("X-Content-Type-Options", "nosniff")
		header.Set("X-Frame-Options", "DENY")
		header.Set("X-XSS-Protection", "1; mode=block")
		header.Set("Referrer-Policy", "no-referrer")
		header.Set("Content-Security-Policy", "default-src 'self'")

		c.Next()
	}
}

// CORSConfig: 모든 출처를 허용하는 CORS 설정을 반환합니다.
// AllowAllOrigins와 AllowCredentials는 함께 쓸 수 없어 AllowOriginFunc로 우회한다.
func CORSConfig() cors.Config {
	return cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
}

// CORS 는 CORS 미들웨어다.
func CORS() gin.HandlerFunc {
	return cors.New(CORSConfig())
}
