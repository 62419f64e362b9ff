package httperror

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/silso/auth-backend-go/internal/court"
	"github.com/silso/auth-backend-go/internal/firebaseauth"
	"github.com/silso/auth-backend-go/internal/gemini"
	"github.com/silso/auth-backend-go/internal/kakao"
)

// ErrorCode 는 API 오류 코드다.
type ErrorCode string

const (
	// ErrorCodeInternal 는 분류되지 않은 내부 오류 코드다.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrorCodeEndpointNotFound 는 미등록 경로 코드다.
	ErrorCodeEndpointNotFound ErrorCode = "ENDPOINT_NOT_FOUND"
	// ErrorCodeRateLimitExceeded 는 일반 요청 제한 초과 코드다.
	ErrorCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrorCodeAuthRateLimitExceeded 는 인증 요청 제한 초과 코드다.
	ErrorCodeAuthRateLimitExceeded ErrorCode = "AUTH_RATE_LIMIT_EXCEEDED"
	// ErrorCodeInvalidRequestBody 는 본문 파싱 실패 코드다.
	ErrorCodeInvalidRequestBody ErrorCode = "INVALID_REQUEST_BODY"

	// ErrorCodeMissingAccessToken 는 액세스 토큰 누락 코드다.
	ErrorCodeMissingAccessToken ErrorCode = "MISSING_ACCESS_TOKEN"
	// ErrorCodeInvalidAccessTokenFormat 는 액세스 토큰 형식 오류 코드다.
	ErrorCodeInvalidAccessTokenFormat ErrorCode = "INVALID_ACCESS_TOKEN_FORMAT"
	// ErrorCodeInvalidKakaoToken 는 카카오 토큰 거부 코드다.
	ErrorCodeInvalidKakaoToken ErrorCode = "INVALID_KAKAO_TOKEN"
	// ErrorCodeKakaoAPIForbidden 는 카카오 API 접근 거부 코드다.
	ErrorCodeKakaoAPIForbidden ErrorCode = "KAKAO_API_FORBIDDEN"
	// ErrorCodeKakaoAPIUnavailable 는 카카오 연결 실패 코드다.
	ErrorCodeKakaoAPIUnavailable ErrorCode = "KAKAO_API_UNAVAILABLE"
	// ErrorCodeFirebaseTokenCreationFailed 는 커스텀 토큰 발급 실패 코드다.
	ErrorCodeFirebaseTokenCreationFailed ErrorCode = "FIREBASE_TOKEN_CREATION_FAILED"
	// ErrorCodeAuthenticationFailed 는 인증 처리 일반 실패 코드다.
	ErrorCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"

	// ErrorCodeMissingAuthorizationCode 는 인가 코드 누락 코드다.
	ErrorCodeMissingAuthorizationCode ErrorCode = "MISSING_AUTHORIZATION_CODE"
	// ErrorCodeMissingRedirectURI 는 리다이렉트 URI 누락 코드다.
	ErrorCodeMissingRedirectURI ErrorCode = "MISSING_REDIRECT_URI"
	// ErrorCodeInvalidAuthorizationCode 는 인가 코드 거부 코드다.
	ErrorCodeInvalidAuthorizationCode ErrorCode = "INVALID_AUTHORIZATION_CODE"
	// ErrorCodeKakaoAuthFailed 는 앱 자격 증명 거부 코드다.
	ErrorCodeKakaoAuthFailed ErrorCode = "KAKAO_AUTH_FAILED"
	// ErrorCodeCodeExchangeFailed 는 코드 교환 일반 실패 코드다.
	ErrorCodeCodeExchangeFailed ErrorCode = "CODE_EXCHANGE_FAILED"

	// ErrorCodeMissingCourtData 는 세션 데이터 누락 코드다.
	ErrorCodeMissingCourtData ErrorCode = "MISSING_COURT_DATA"
	// ErrorCodeIncompleteCourtData 는 필수 세션 필드 누락 코드다.
	ErrorCodeIncompleteCourtData ErrorCode = "INCOMPLETE_COURT_DATA"
	// ErrorCodeInvalidGeminiAPIKey 는 Gemini API 키 거부 코드다.
	ErrorCodeInvalidGeminiAPIKey ErrorCode = "INVALID_GEMINI_API_KEY"
	// ErrorCodeGeminiQuotaExceeded 는 Gemini 할당량 초과 코드다.
	ErrorCodeGeminiQuotaExceeded ErrorCode = "GEMINI_QUOTA_EXCEEDED"
	// ErrorCodeContentSafetyViolation 는 안전 필터 차단 코드다.
	ErrorCodeContentSafetyViolation ErrorCode = "CONTENT_SAFETY_VIOLATION"
	// ErrorCodeAIGenerationFailed 는 결론 생성 일반 실패 코드다.
	ErrorCodeAIGenerationFailed ErrorCode = "AI_GENERATION_FAILED"
)

// error 필드에 들어가는 범주 문자열
const (
	categoryBadRequest         = "Bad Request"
	categoryUnauthorized       = "Unauthorized"
	categoryForbidden          = "Forbidden"
	categoryNotFound           = "Not Found"
	categoryTooManyRequests    = "Too Many Requests"
	categoryServiceUnavailable = "Service Unavailable"
	categoryInternal           = "Internal Server Error"
)

// ErrorResponse 는 모든 실패 응답의 공통 본문이다.
type ErrorResponse struct {
	Error            string    `json:"error"`
	Message          string    `json:"message"`
	Code             ErrorCode `json:"code"`
	ProcessingTimeMS *int64    `json:"processing_time_ms,omitempty"`
}

// Error 는 내부 표준 오류 타입이다.
type Error struct {
	Status   int
	Category string
	Code     ErrorCode
	Message  string
}

// Error 는 오류 메시지를 반환한다.
func (e *Error) Error() string {
	return e.Message
}

// New 는 표준 오류를 생성한다.
func New(status int, category string, code ErrorCode, message string) *Error {
	return &Error{
		Status:   status,
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// NewValidation 는 검증 오류를 생성한다. 항상 400이다.
func NewValidation(code ErrorCode, message string) *Error {
	return New(http.StatusBadRequest, categoryBadRequest, code, message)
}

// NewInternal 는 내부 오류를 생성한다.
func NewInternal(code ErrorCode, message string) *Error {
	return New(http.StatusInternalServerError, categoryInternal, code, message)
}

// NewEndpointNotFound 는 시도한 메서드와 경로를 되돌려주는 404 오류를 생성한다.
func NewEndpointNotFound(method string, path string) *Error {
	return New(
		http.StatusNotFound,
		categoryNotFound,
		ErrorCodeEndpointNotFound,
		fmt.Sprintf("Endpoint %s %s not found", method, path),
	)
}

// NewRateLimitExceeded 는 일반 요청 제한 오류를 생성한다.
func NewRateLimitExceeded() *Error {
	return New(
		http.StatusTooManyRequests,
		categoryTooManyRequests,
		ErrorCodeRateLimitExceeded,
		"Too many requests. Please try again later",
	)
}

// NewAuthRateLimitExceeded 는 인증 요청 제한 오류를 생성한다.
func NewAuthRateLimitExceeded() *Error {
	return New(
		http.StatusTooManyRequests,
		categoryTooManyRequests,
		ErrorCodeAuthRateLimitExceeded,
		"Too many authentication attempts. Please try again later (max 10 attempts per 15 minutes)",
	)
}

// Classify 는 업스트림 오류를 상태 코드와 클라이언트 코드 쌍으로 번역한다.
// 어디에도 해당하지 않으면 핸들러별 fallback을 쓴다.
func Classify(err error, fallback *Error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, kakao.ErrInvalidToken):
		return New(http.StatusUnauthorized, categoryUnauthorized, ErrorCodeInvalidKakaoToken,
			"Invalid or expired Kakao access token")
	case errors.Is(err, kakao.ErrForbidden):
		return New(http.StatusForbidden, categoryForbidden, ErrorCodeKakaoAPIForbidden,
			"Kakao API access forbidden. Check your app configuration.")
	case errors.Is(err, kakao.ErrNetwork):
		return New(http.StatusServiceUnavailable, categoryServiceUnavailable, ErrorCodeKakaoAPIUnavailable,
			"Unable to connect to Kakao servers")
	case errors.Is(err, kakao.ErrInvalidAuthorizationCode):
		return NewValidation(ErrorCodeInvalidAuthorizationCode,
			"Invalid authorization code or redirect URI")
	case errors.Is(err, kakao.ErrInvalidClientCredentials):
		return New(http.StatusUnauthorized, categoryUnauthorized, ErrorCodeKakaoAuthFailed,
			"Invalid Kakao application credentials")
	case errors.Is(err, firebaseauth.ErrTokenCreation):
		return NewInternal(ErrorCodeFirebaseTokenCreationFailed,
			"Firebase authentication failed")
	case errors.Is(err, gemini.ErrInvalidAPIKey), errors.Is(err, gemini.ErrMissingAPIKey):
		return New(http.StatusUnauthorized, categoryUnauthorized, ErrorCodeInvalidGeminiAPIKey,
			"Invalid or missing Gemini API key")
	case errors.Is(err, gemini.ErrQuotaExceeded):
		return New(http.StatusTooManyRequests, categoryTooManyRequests, ErrorCodeGeminiQuotaExceeded,
			"Gemini API quota exceeded")
	case errors.Is(err, gemini.ErrSafetyBlocked):
		return NewValidation(ErrorCodeContentSafetyViolation,
			"Content flagged by AI safety filters")
	case errors.Is(err, court.ErrIncompleteData):
		return NewValidation(ErrorCodeIncompleteCourtData,
			"Missing required court session data: case_title, case_description, chat_messages, votes")
	}

	if fallback != nil {
		return fallback
	}
	return NewInternal(ErrorCodeInternal, "Something went wrong on our end")
}

// Response 는 오류를 HTTP 응답으로 변환한다.
// elapsed가 음수면 processing_time_ms를 생략한다.
func Response(apiErr *Error, elapsed time.Duration) (int, ErrorResponse) {
	if apiErr == nil {
		apiErr = NewInternal(ErrorCodeInternal, "Something went wrong on our end")
	}

	var processingTime *int64
	if elapsed >= 0 {
		ms := elapsed.Milliseconds()
		processingTime = &ms
	}

	return apiErr.Status, ErrorResponse{
		Error:            apiErr.Category,
		Message:          apiErr.Message,
		Code:             apiErr.Code,
		ProcessingTimeMS: processingTime,
	}
}
