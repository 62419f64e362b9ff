package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit 는 요청 본문 크기를 제한하는 미들웨어다.
// 한도를 넘는 본문은 핸들러의 읽기 시점에 실패한다.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
