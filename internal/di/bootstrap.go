package di

import (
	"context"
	"fmt"

	"github.com/silso/auth-backend-go/internal/config"
	"github.com/silso/auth-backend-go/internal/court"
	"github.com/silso/auth-backend-go/internal/firebaseauth"
	"github.com/silso/auth-backend-go/internal/gemini"
	"github.com/silso/auth-backend-go/internal/handler"
	"github.com/silso/auth-backend-go/internal/kakao"
	"github.com/silso/auth-backend-go/internal/metrics"
	"github.com/silso/auth-backend-go/internal/ratelimit"
	"github.com/silso/auth-backend-go/internal/server"
)

// InitializeApp 은 애플리케이션 의존성을 초기화하고 App 인스턴스를 반환한다.
func InitializeApp(ctx context.Context) (*App, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	metricsStore := metrics.NewStore()

	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	counter, err := ratelimit.NewCounter(cfg)
	if err != nil {
		return nil, fmt.Errorf("rate limit counter: %w", err)
	}

	kakaoClient, err := kakao.NewClient(cfg, logger)
	if err != nil {
		counter.Close()
		return nil, fmt.Errorf("kakao client: %w", err)
	}

	issuer, err := firebaseauth.NewIssuer(ctx, cfg, logger)
	if err != nil {
		counter.Close()
		return nil, fmt.Errorf("firebase issuer: %w", err)
	}

	geminiClient, err := gemini.NewClient(cfg, metricsStore)
	if err != nil {
		counter.Close()
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	courtService := court.NewService(geminiClient, logger)

	authHandler := handler.NewAuthHandler(kakaoClient, issuer, logger)
	courtHandler := handler.NewCourtHandler(courtService, cfg, logger)

	router := handler.NewRouter(cfg, logger, metricsStore, counter, authHandler, courtHandler)
	httpServer := server.NewHTTPServer(cfg, router)

	return NewApp(httpServer, logger, cfg, counter), nil
}
