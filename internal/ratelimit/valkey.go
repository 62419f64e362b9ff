package ratelimit

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyCounter 는 Valkey INCR 기반 카운터다.
// 여러 인스턴스가 같은 저장소를 공유할 때 창 단위 집계가 일관된다.
type ValkeyCounter struct {
	client valkey.Client
	window time.Duration
}

// NewValkeyCounter 는 Valkey 카운터를 생성한다.
func NewValkeyCounter(storeURL string, window time.Duration) (*ValkeyCounter, error) {
	conn, err := parseStoreURL(storeURL)
	if err != nil {
		return nil, fmt.Errorf("parse store url: %w", err)
	}

	var tlsConfig *tls.Config
	if conn.useTLS {
		host, _, splitErr := net.SplitHostPort(conn.addr)
		if splitErr != nil {
			return nil, fmt.Errorf("parse store addr: %w", splitErr)
		}
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host}
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		TLSConfig:    tlsConfig,
		Username:     conn.username,
		Password:     conn.password,
		InitAddress:  []string{conn.addr},
		SelectDB:     conn.selectDB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to valkey: %w", err)
	}

	if window <= 0 {
		window = time.Minute
	}

	return &ValkeyCounter{client: client, window: window}, nil
}

// Incr 는 키 카운터를 1 증가시키고 첫 증가 시 만료를 건다.
func (v *ValkeyCounter) Incr(ctx context.Context, key string) (int64, error) {
	incrCmd := v.client.B().Incr().Key(key).Build()
	count, err := v.client.Do(ctx, incrCmd).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("incr counter: %w", err)
	}

	if count == 1 {
		expireCmd := v.client.B().Expire().Key(key).Seconds(int64(v.window.Seconds())).Build()
		if err := v.client.Do(ctx, expireCmd).Error(); err != nil {
			return count, fmt.Errorf("expire counter: %w", err)
		}
	}

	return count, nil
}

// Close 는 Valkey 연결을 종료한다.
func (v *ValkeyCounter) Close() {
	if v == nil || v.client == nil {
		return
	}
	v.client.Close()
}

var _ Counter = (*ValkeyCounter)(nil)
