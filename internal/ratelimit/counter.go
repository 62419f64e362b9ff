package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/silso/auth-backend-go/internal/config"
)

// Counter 는 키별 요청 횟수를 세는 저장소 인터페이스다.
// 동일 키에 대한 Incr 는 동시 요청 간에도 원자적이어야 한다.
type Counter interface {
	// Incr 키 카운터를 1 증가시키고 증가 후 값을 반환
	Incr(ctx context.Context, key string) (int64, error)

	// Close 리소스 정리
	Close()
}

// NewCounter 는 설정에 따라 카운터 백엔드를 선택한다.
// RATE_LIMIT_STORE_URL 이 비어있으면 인메모리 카운터를 쓴다.
func NewCounter(cfg *config.Config) (Counter, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if strings.TrimSpace(cfg.RateLimit.StoreURL) == "" {
		if cfg.RateLimit.StoreRequired {
			return nil, errors.New("rate limit store required but url missing")
		}
		return NewMemoryCounter(cfg.RateLimit.CacheSize, window), nil
	}

	counter, err := NewValkeyCounter(cfg.RateLimit.StoreURL, window)
	if err != nil {
		return nil, fmt.Errorf("rate limit store: %w", err)
	}
	return counter, nil
}

// WindowKey 는 아이덴티티와 시간 창을 묶은 카운터 키를 만든다.
// 같은 창 안의 요청은 같은 키로 집계된다.
func WindowKey(scope string, identity string, now time.Time, window time.Duration) string {
	if window <= 0 {
		window = time.Minute
	}
	bucket := now.Unix() / int64(window.Seconds())
	return fmt.Sprintf("ratelimit:%s:%s:%d", scope, identity, bucket)
}
