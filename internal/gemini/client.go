package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/silso/auth-backend-go/internal/config"
	"github.com/silso/auth-backend-go/internal/metrics"
)

var (
	// ErrMissingAPIKey 는 Gemini API 키가 없을 때 반환된다.
	ErrMissingAPIKey = errors.New("missing gemini api key")
	// ErrInvalidAPIKey 는 API 키가 거부될 때 반환된다.
	ErrInvalidAPIKey = errors.New("invalid gemini api key")
	// ErrQuotaExceeded 는 호출 할당량이 소진될 때 반환된다.
	ErrQuotaExceeded = errors.New("gemini quota exceeded")
	// ErrSafetyBlocked 는 안전 필터가 콘텐츠를 차단할 때 반환된다.
	ErrSafetyBlocked = errors.New("content blocked by gemini safety filters")
	// ErrEmptyResponse 는 모델이 빈 응답을 돌려줄 때 반환된다.
	ErrEmptyResponse = errors.New("empty gemini response")
)

// Client 는 Gemini 호출을 담당한다.
type Client struct {
	cfg       *config.Config
	metrics   *metrics.Store
	mu        sync.Mutex
	clients   map[string]*genai.Client
	apiKeys   []string
	apiKeyIdx int
}

// NewClient 는 Gemini 클라이언트를 생성한다.
func NewClient(cfg *config.Config, metricsStore *metrics.Store) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	return &Client{
		cfg:     cfg,
		metrics: metricsStore,
		clients: make(map[string]*genai.Client),
		apiKeys: cfg.Gemini.APIKeys,
	}, nil
}

// Generate 는 프롬프트로 텍스트 생성을 요청한다.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := c.generate(ctx, prompt)
	if err != nil {
		c.recordError(time.Since(start))
		return "", classifyError(err)
	}

	c.recordSuccess(time.Since(start))
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	client, err := c.selectClient(ctx)
	if err != nil {
		return "", err
	}

	generateConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(c.cfg.Gemini.Temperature)),
		MaxOutputTokens: int32(c.cfg.Gemini.MaxOutputTokens),
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	response, err := client.Models.GenerateContent(ctx, c.cfg.Gemini.Model, contents, generateConfig)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if reason := blockReason(response); reason != "" {
		return "", fmt.Errorf("%w: %s", ErrSafetyBlocked, reason)
	}

	text := response.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (c *Client) selectClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.apiKeys) == 0 {
		return nil, ErrMissingAPIKey
	}

	key := c.apiKeys[c.apiKeyIdx%len(c.apiKeys)]
	c.apiKeyIdx++
	if client, ok := c.clients[key]; ok {
		return client, nil
	}

	timeout := time.Duration(c.cfg.Gemini.TimeoutSeconds) * time.Second
	client, err := genai.NewClient(context.WithoutCancel(ctx), &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			Timeout: genai.Ptr(timeout),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	c.clients[key] = client
	return client, nil
}

func (c *Client) recordSuccess(duration time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordGeminiCall(duration, nil)
}

func (c *Client) recordError(duration time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordGeminiCall(duration, errors.New("generation failed"))
}

func blockReason(response *genai.GenerateContentResponse) string {
	if response == nil {
		return ""
	}
	if response.PromptFeedback != nil && response.PromptFeedback.BlockReason != "" {
		return string(response.PromptFeedback.BlockReason)
	}
	if len(response.Candidates) > 0 && response.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return string(genai.FinishReasonSafety)
	}
	return ""
}

// classifyError 는 벤더 오류를 안정적인 내부 오류로 분류한다.
// SDK가 노출하는 상태 코드를 먼저 보고, 메시지 부분 문자열은 최후 수단으로만 쓴다.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrMissingAPIKey) || errors.Is(err, ErrSafetyBlocked) || errors.Is(err, ErrEmptyResponse) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return fmt.Errorf("%w: %s", ErrInvalidAPIKey, apiErr.Status)
		case 429:
			return fmt.Errorf("%w: %s", ErrQuotaExceeded, apiErr.Status)
		}
	}

	message := strings.ToUpper(err.Error())
	switch {
	case strings.Contains(message, "API_KEY") || strings.Contains(message, "API KEY"):
		return fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
	case strings.Contains(message, "QUOTA_EXCEEDED") || strings.Contains(message, "RESOURCE_EXHAUSTED"):
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	case strings.Contains(message, "SAFETY"):
		return fmt.Errorf("%w: %v", ErrSafetyBlocked, err)
	}

	return err
}
