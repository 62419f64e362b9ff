package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/silso/auth-backend-go/internal/httperror"
)

// writeError: 분류된 오류 응답을 처리 시간과 함께 작성합니다.
func writeError(c *gin.Context, apiErr *httperror.Error, startedAt time.Time) {
	status, payload := httperror.Response(apiErr, time.Since(startedAt))
	c.JSON(status, payload)
}

// writeValidationError: 검증 오류 응답을 작성합니다. 처리 시간은 생략한다.
func writeValidationError(c *gin.Context, code httperror.ErrorCode, message string) {
	status, payload := httperror.Response(httperror.NewValidation(code, message), -1)
	c.JSON(status, payload)
}

// bindJSON 는 요청 본문을 JSON으로 파싱한다. 빈 본문은 빈 요청으로 허용하고
// 필드 검증에 맡긴다. 깨진 본문은 업스트림 호출 전에 400으로 끝낸다.
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		writeValidationError(c, httperror.ErrorCodeInvalidRequestBody, "Request body must be valid JSON")
		return false
	}
	return true
}

// respondSuccess 는 성공 공통 필드를 붙여 응답한다.
func respondSuccess(c *gin.Context, payload gin.H, startedAt time.Time) {
	body := gin.H{"success": true}
	for key, value := range payload {
		body[key] = value
	}
	body["processing_time_ms"] = time.Since(startedAt).Milliseconds()
	body["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	c.JSON(http.StatusOK, body)
}

// nullable 는 빈 문자열을 JSON null로 바꾼다.
func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
