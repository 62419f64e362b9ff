package kakao

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/silso/auth-backend-go/internal/config"
)

var (
	// ErrInvalidAuthorizationCode 는 인가 코드가 유효하지 않을 때 반환된다.
	ErrInvalidAuthorizationCode = errors.New("invalid authorization code")
	// ErrInvalidClientCredentials 는 앱 자격 증명이 거부될 때 반환된다.
	ErrInvalidClientCredentials = errors.New("invalid kakao application credentials")
	// ErrTokenExchange 는 토큰 교환이 그 외 이유로 실패할 때 반환된다.
	ErrTokenExchange = errors.New("kakao token exchange failed")
	// ErrNetwork 는 카카오 서버에 연결하지 못할 때 반환된다.
	ErrNetwork = errors.New("kakao network error")
	// ErrInvalidToken 는 액세스 토큰이 만료되었거나 유효하지 않을 때 반환된다.
	ErrInvalidToken = errors.New("invalid or expired kakao access token")
	// ErrForbidden 는 카카오 API 접근이 거부될 때 반환된다.
	ErrForbidden = errors.New("kakao api access forbidden")
	// ErrProfileFetch 는 사용자 정보 조회가 그 외 이유로 실패할 때 반환된다.
	ErrProfileFetch = errors.New("kakao profile fetch failed")
)

// DemoAccessToken 은 네트워크 호출 없이 고정 프로필을 돌려주는 테스트 전용 토큰이다.
const DemoAccessToken = "demo_kakao_access_token_for_testing"

// Client 는 카카오 OAuth/사용자 API 클라이언트다.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient 는 카카오 클라이언트를 생성한다.
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	timeout := time.Duration(cfg.Kakao.TimeoutSeconds) * time.Second
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// ExchangeCodeForToken 은 인가 코드를 액세스 토큰으로 교환한다.
func (c *Client) ExchangeCodeForToken(ctx context.Context, code string, redirectURI string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.cfg.Kakao.RESTAPIKey)
	form.Set("client_secret", c.cfg.Kakao.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Kakao.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logWarn("kakao_token_exchange_failed", err)
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrTokenExchange, err)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return "", fmt.Errorf("%w: %s", ErrInvalidAuthorizationCode, upstreamErrorDetail(body))
	case resp.StatusCode == http.StatusUnauthorized:
		return "", ErrInvalidClientCredentials
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", fmt.Errorf("%w: status %d", ErrTokenExchange, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrTokenExchange, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: no access token in response", ErrTokenExchange)
	}

	return token.AccessToken, nil
}

// FetchUserProfile 은 액세스 토큰으로 카카오 사용자 정보를 조회한다.
// 데모 토큰은 네트워크 호출 없이 고정 프로필을 반환한다.
func (c *Client) FetchUserProfile(ctx context.Context, accessToken string) (*UserInfo, error) {
	if accessToken == DemoAccessToken {
		c.logDebug("kakao_demo_profile_used")
		return demoUserInfo(), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Kakao.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logWarn("kakao_profile_fetch_failed", err)
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrProfileFetch, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrInvalidToken
	case resp.StatusCode == http.StatusForbidden:
		return nil, ErrForbidden
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status %d", ErrProfileFetch, resp.StatusCode)
	}

	var info UserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrProfileFetch, err)
	}
	if info.ID == 0 {
		return nil, fmt.Errorf("%w: missing user id", ErrProfileFetch)
	}

	return &info, nil
}

func demoUserInfo() *UserInfo {
	return &UserInfo{
		ID:          99999999,
		ConnectedAt: time.Now().UTC().Format(time.RFC3339),
		KakaoAccount: KakaoAccount{
			Profile: Profile{
				Nickname:          "Demo User",
				ThumbnailImageURL: "https://via.placeholder.com/64x64.png?text=Demo",
				ProfileImageURL:   "https://via.placeholder.com/256x256.png?text=Demo",
				IsDefaultImage:    true,
			},
			Email:           "demo.user@kakao.demo",
			IsEmailValid:    true,
			IsEmailVerified: true,
			HasEmail:        true,
		},
	}
}

func upstreamErrorDetail(body []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "unknown error"
	}
	if parsed.ErrorDescription != "" {
		return parsed.ErrorDescription
	}
	if parsed.Error != "" {
		return parsed.Error
	}
	return "unknown error"
}

func (c *Client) logWarn(event string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(event, "err", err)
}

func (c *Client) logDebug(event string) {
	if c.logger == nil {
		return
	}
	c.logger.Debug(event)
}
