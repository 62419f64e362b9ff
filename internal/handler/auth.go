package handler

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/silso/auth-backend-go/internal/httperror"
	"github.com/silso/auth-backend-go/internal/kakao"
	"github.com/silso/auth-backend-go/internal/middleware"
)

// IdentityClient 는 카카오 OAuth 호출 인터페이스다.
type IdentityClient interface {
	ExchangeCodeForToken(ctx context.Context, code string, redirectURI string) (string, error)
	FetchUserProfile(ctx context.Context, accessToken string) (*kakao.UserInfo, error)
}

// TokenIssuer 는 Firebase 커스텀 토큰 발급 인터페이스다.
type TokenIssuer interface {
	IssueCustomToken(ctx context.Context, profile *kakao.UserInfo) (string, error)
}

// AuthHandler 는 카카오 인증 엔드포인트 핸들러다.
type AuthHandler struct {
	identity IdentityClient
	issuer   TokenIssuer
	logger   *slog.Logger
}

// NewAuthHandler 는 인증 핸들러를 생성한다.
func NewAuthHandler(identity IdentityClient, issuer TokenIssuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		issuer:   issuer,
		logger:   logger,
	}
}

// RegisterRoutes 는 /auth 그룹에 라우트를 등록한다.
func (h *AuthHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/kakao/custom-token", h.CustomToken)
	group.POST("/kakao/exchange-code", h.ExchangeCode)
}

type customTokenRequest struct {
	// 문자열이 아닌 값도 형식 오류로 구분해야 해서 any로 받는다.
	KakaoAccessToken any `json:"kakao_access_token"`
}

// CustomToken: 카카오 액세스 토큰을 검증하고 Firebase 커스텀 토큰을 발급합니다.
// POST /auth/kakao/custom-token
func (h *AuthHandler) CustomToken(c *gin.Context) {
	startedAt := time.Now()

	var req customTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.KakaoAccessToken == nil || req.KakaoAccessToken == "" {
		writeValidationError(c, httperror.ErrorCodeMissingAccessToken,
			"kakao_access_token is required")
		return
	}

	accessToken, ok := req.KakaoAccessToken.(string)
	if !ok || strings.TrimSpace(accessToken) == "" {
		writeValidationError(c, httperror.ErrorCodeInvalidAccessTokenFormat,
			"kakao_access_token must be a non-empty string")
		return
	}

	ctx := c.Request.Context()

	profile, err := h.identity.FetchUserProfile(ctx, accessToken)
	if err != nil {
		h.failAuth(c, "kakao_profile_fetch_failed", err, startedAt)
		return
	}

	customToken, err := h.issuer.IssueCustomToken(ctx, profile)
	if err != nil {
		h.failAuth(c, "custom_token_issue_failed", err, startedAt)
		return
	}

	respondSuccess(c, gin.H{
		"firebase_custom_token": customToken,
		"user_info": gin.H{
			"uid":            profile.UID(),
			"email":          nullable(profile.KakaoAccount.Email),
			"name":           nullable(profile.KakaoAccount.Profile.Nickname),
			"picture":        nullable(profile.KakaoAccount.Profile.ProfileImageURL),
			"provider":       "kakao",
			"kakao_id":       profile.ID,
			"email_verified": profile.EmailVerified(),
			"has_email":      profile.KakaoAccount.HasEmail,
		},
	}, startedAt)
}

type exchangeCodeRequest struct {
	AuthorizationCode string `json:"authorization_code"`
	RedirectURI       string `json:"redirect_uri"`
}

// ExchangeCode: 인가 코드를 카카오 액세스 토큰으로 교환합니다.
// POST /auth/kakao/exchange-code
func (h *AuthHandler) ExchangeCode(c *gin.Context) {
	startedAt := time.Now()

	var req exchangeCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.AuthorizationCode == "" {
		writeValidationError(c, httperror.ErrorCodeMissingAuthorizationCode,
			"authorization_code is required")
		return
	}
	if req.RedirectURI == "" {
		writeValidationError(c, httperror.ErrorCodeMissingRedirectURI,
			"redirect_uri is required")
		return
	}

	accessToken, err := h.identity.ExchangeCodeForToken(c.Request.Context(), req.AuthorizationCode, req.RedirectURI)
	if err != nil {
		apiErr := httperror.Classify(err, httperror.NewInternal(
			httperror.ErrorCodeCodeExchangeFailed,
			"Code exchange failed. Please try again.",
		))
		h.logWarn(c, "code_exchange_failed", err, apiErr)
		writeError(c, apiErr, startedAt)
		return
	}

	respondSuccess(c, gin.H{"access_token": accessToken}, startedAt)
}

func (h *AuthHandler) failAuth(c *gin.Context, event string, err error, startedAt time.Time) {
	apiErr := httperror.Classify(err, httperror.NewInternal(
		httperror.ErrorCodeAuthenticationFailed,
		"Authentication failed. Please try again.",
	))
	h.logWarn(c, event, err, apiErr)
	writeError(c, apiErr, startedAt)
}

func (h *AuthHandler) logWarn(c *gin.Context, event string, err error, apiErr *httperror.Error) {
	if h.logger == nil {
		return
	}
	h.logger.Warn(event,
		"request_id", middleware.GetRequestID(c),
		"code", apiErr.Code,
		"status", apiErr.Status,
		"error", err,
	)
}
