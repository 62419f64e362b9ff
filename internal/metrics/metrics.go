package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store 는 HTTP 요청과 Gemini 호출 통계를 기록한다.
// 전용 레지스트리를 쓰므로 테스트에서 여러 번 생성해도 충돌하지 않는다.
type Store struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	geminiCalls     prometheus.Counter
	geminiErrors    prometheus.Counter
	geminiDuration  prometheus.Histogram
}

// NewStore 는 통계 저장소를 생성한다.
func NewStore() *Store {
	registry := prometheus.NewRegistry()

	store := &Store{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_backend_http_requests_total",
			Help: "Total HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auth_backend_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		geminiCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_backend_gemini_calls_total",
			Help: "Total Gemini generation calls.",
		}),
		geminiErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_backend_gemini_errors_total",
			Help: "Failed Gemini generation calls.",
		}),
		geminiDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "auth_backend_gemini_call_duration_seconds",
			Help:    "Gemini call latency.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		}),
	}

	registry.MustRegister(
		store.requestsTotal,
		store.requestDuration,
		store.geminiCalls,
		store.geminiErrors,
		store.geminiDuration,
	)

	return store
}

// RecordHTTPRequest 는 HTTP 요청 통계를 기록한다.
func (s *Store) RecordHTTPRequest(method string, path string, status int, duration time.Duration) {
	s.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	s.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordGeminiCall 는 Gemini 호출 통계를 기록한다.
func (s *Store) RecordGeminiCall(duration time.Duration, err error) {
	s.geminiCalls.Inc()
	s.geminiDuration.Observe(duration.Seconds())
	if err != nil {
		s.geminiErrors.Inc()
	}
}

// Handler 는 /metrics 응답 핸들러를 반환한다.
func (s *Store) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
