package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/silso/auth-backend-go/internal/cache"
)

// MemoryCounter 는 TTLCache 기반 인메모리 카운터다.
// 창 경계가 키에 포함되므로 TTL 은 창 길이만큼만 유지하면 된다.
type MemoryCounter struct {
	counters *cache.TTLCache[string, int64]
}

// NewMemoryCounter 는 인메모리 카운터를 생성한다.
func NewMemoryCounter(maxSize int, window time.Duration) *MemoryCounter {
	return &MemoryCounter{
		counters: cache.NewTTLCache[string, int64](maxSize, window),
	}
}

// Incr 는 키 카운터를 1 증가시킨다.
func (m *MemoryCounter) Incr(_ context.Context, key string) (int64, error) {
	count, ok := m.counters.Modify(key, func(current int64, _ bool) int64 { return current + 1 })
	if !ok {
		return 0, errors.New("counter modify failed")
	}
	return count, nil
}

// Close 는 아무것도 하지 않는다.
func (m *MemoryCounter) Close() {}

var _ Counter = (*MemoryCounter)(nil)
