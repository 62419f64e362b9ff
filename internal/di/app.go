package di

import (
	"log/slog"
	"net/http"

	"github.com/silso/auth-backend-go/internal/config"
	"github.com/silso/auth-backend-go/internal/ratelimit"
)

// App: 애플리케이션 구성 요소를 묶는다.
type App struct {
	Server  *http.Server
	Logger  *slog.Logger
	Config  *config.Config
	Counter ratelimit.Counter
}

// NewApp: App 인스턴스를 생성합니다.
func NewApp(
	server *http.Server,
	logger *slog.Logger,
	cfg *config.Config,
	counter ratelimit.Counter,
) *App {
	return &App{
		Server:  server,
		Logger:  logger,
		Config:  cfg,
		Counter: counter,
	}
}

// Close: 앱 리소스를 정리합니다.
func (a *App) Close() {
	if a.Counter != nil {
		a.Counter.Close()
	}
}
