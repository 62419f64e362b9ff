package firebaseauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/silso/auth-backend-go/internal/config"
	"github.com/silso/auth-backend-go/internal/kakao"
)

// ErrTokenCreation 는 커스텀 토큰 발급이 실패할 때 반환된다.
// 항상 서버 측 장애로 취급한다.
var ErrTokenCreation = errors.New("failed to create firebase custom token")

// TokenMinter 는 Firebase Auth의 커스텀 토큰 발급 기능 인터페이스다.
// 테스트에서 mock 구현을 주입할 수 있도록 한다.
type TokenMinter interface {
	CustomTokenWithClaims(ctx context.Context, uid string, devClaims map[string]any) (string, error)
}

// Issuer 는 카카오 프로필로 Firebase 커스텀 토큰을 발급한다.
type Issuer struct {
	minter TokenMinter
	logger *slog.Logger
	now    func() time.Time
}

// NewIssuer 는 Firebase Admin SDK 기반 발급자를 생성한다.
// 자격 증명 파일이 없으면 ADC를 사용한다.
func NewIssuer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Issuer, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	var firebaseConfig *firebase.Config
	if cfg.Firebase.ProjectID != "" {
		firebaseConfig = &firebase.Config{ProjectID: cfg.Firebase.ProjectID}
	}

	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, firebaseConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}

	return NewIssuerWithMinter(authClient, logger), nil
}

// NewIssuerWithMinter 는 발급 구현을 직접 주입받는 생성자다.
func NewIssuerWithMinter(minter TokenMinter, logger *slog.Logger) *Issuer {
	return &Issuer{
		minter: minter,
		logger: logger,
		now:    time.Now,
	}
}

// IssueCustomToken 은 카카오 프로필을 uid와 클레임으로 변환해 토큰을 발급한다.
func (i *Issuer) IssueCustomToken(ctx context.Context, profile *kakao.UserInfo) (string, error) {
	if profile == nil {
		return "", fmt.Errorf("%w: profile is nil", ErrTokenCreation)
	}

	claims := buildClaims(profile, i.now().UTC())
	token, err := i.minter.CustomTokenWithClaims(ctx, profile.UID(), claims)
	if err != nil {
		if i.logger != nil {
			i.logger.Error("firebase_custom_token_failed", "uid", profile.UID(), "err", err)
		}
		return "", fmt.Errorf("%w: %v", ErrTokenCreation, err)
	}

	return token, nil
}

func buildClaims(profile *kakao.UserInfo, issuedAt time.Time) map[string]any {
	account := profile.KakaoAccount
	return map[string]any{
		"provider":       "kakao",
		"kakao_id":       profile.ID,
		"email":          account.Email,
		"nickname":       account.Profile.Nickname,
		"profile_image":  account.Profile.ProfileImageURL,
		"verified_email": profile.EmailVerified(),
		"has_email":      account.HasEmail,
		"created_at":     issuedAt.Format(time.RFC3339),
	}
}
