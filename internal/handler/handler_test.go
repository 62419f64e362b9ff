package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/silso/auth-backend-go/internal/config"
	"github.com/silso/auth-backend-go/internal/court"
	"github.com/silso/auth-backend-go/internal/gemini"
	"github.com/silso/auth-backend-go/internal/kakao"
	"github.com/silso/auth-backend-go/internal/metrics"
	"github.com/silso/auth-backend-go/internal/ratelimit"
)

type fakeIdentity struct {
	exchangeCalls int
	profileCalls  int
	token         string
	profile       *kakao.UserInfo
	err           error
}

func (f *fakeIdentity) ExchangeCodeForToken(_ context.Context, _ string, _ string) (string, error) {
	f.exchangeCalls++
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func (f *fakeIdentity) FetchUserProfile(_ context.Context, _ string) (*kakao.UserInfo, error) {
	f.profileCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

type fakeIssuer struct {
	calls int
	token string
	err   error
}

func (f *fakeIssuer) IssueCustomToken(_ context.Context, _ *kakao.UserInfo) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

type fakeConclusion struct {
	calls  int
	result *court.ConclusionResult
	err    error
}

func (f *fakeConclusion) GenerateConclusion(_ context.Context, _ *court.SessionData) (*court.ConclusionResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func testProfile() *kakao.UserInfo {
	return &kakao.UserInfo{
		ID: 12345,
		KakaoAccount: kakao.KakaoAccount{
			Profile: kakao.Profile{
				Nickname:        "tester",
				ProfileImageURL: "https://example.com/p.png",
			},
			Email:        "tester@example.com",
			IsEmailValid: true,
			HasEmail:     true,
		},
	}
}

func newTestRouter(t *testing.T, identity IdentityClient, issuer TokenIssuer, svc ConclusionService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Gemini:    config.GeminiConfig{Model: "gemini-1.5-flash"},
		RateLimit: config.RateLimitConfig{GeneralLimit: 100, AuthLimit: 10, WindowMinutes: 15, CacheSize: 128},
		Logging:   config.LoggingConfig{Level: "info"},
		HTTP:      config.HTTPConfig{MaxBodyMB: 10},
		Service:   config.ServiceConfig{Name: "Silso Auth Backend", Version: "1.0.0", Environment: "test"},
	}

	counter := ratelimit.NewMemoryCounter(cfg.RateLimit.CacheSize, time.Hour)
	t.Cleanup(counter.Close)

	return NewRouter(cfg, nil, metrics.NewStore(), counter,
		NewAuthHandler(identity, issuer, nil),
		NewCourtHandler(svc, cfg, nil),
	)
}

func doJSON(t *testing.T, router *gin.Engine, method string, path string, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "1.2.3.4:1234"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	decoded := map[string]any{}
	if resp.Body.Len() > 0 {
		if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", resp.Body.String(), err)
		}
	}
	return resp, decoded
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &fakeIdentity{}, &fakeIssuer{}, &fakeConclusion{})

	resp, body := doJSON(t, router, http.MethodGet, "/health", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	if body["status"] != "OK" {
		t.Fatalf("status field = %v", body["status"])
	}
	if body["service"] != "Silso Auth Backend" || body["version"] != "1.0.0" {
		t.Fatalf("service metadata = %v", body)
	}
	if body["timestamp"] == nil {
		t.Fatal("timestamp missing")
	}
}

func TestAPIInfoListsEndpoints(t *testing.T) {
	router := newTestRouter(t, &fakeIdentity{}, &fakeIssuer{}, &fakeConclusion{})

	resp, body := doJSON(t, router, http.MethodGet, "/api/info", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	endpoints, ok := body["endpoints"].([]any)
	if !ok || len(endpoints) != 5 {
		t.Fatalf("endpoints = %v", body["endpoints"])
	}
}

func TestCustomTokenValidation(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"no body", "", "MISSING_ACCESS_TOKEN"},
		{"empty object", "{}", "MISSING_ACCESS_TOKEN"},
		{"empty string", `{"kakao_access_token":""}`, "MISSING_ACCESS_TOKEN"},
		{"non-string", `{"kakao_access_token":12345}`, "INVALID_ACCESS_TOKEN_FORMAT"},
		{"whitespace only", `{"kakao_access_token":"   "}`, "INVALID_ACCESS_TOKEN_FORMAT"},
		{"malformed json", `{"kakao_access_token":`, "INVALID_REQUEST_BODY"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			identity := &fakeIdentity{profile: testProfile()}
			issuer := &fakeIssuer{token: "minted"}
			router := newTestRouter(t, identity, issuer, &fakeConclusion{})

			resp, body := doJSON(t, router, http.MethodPost, "/auth/kakao/custom-token", tc.body)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", resp.Code)
			}
			if body["code"] != tc.wantCode {
				t.Fatalf("code = %v, want %s", body["code"], tc.wantCode)
			}
			if identity.profileCalls != 0 || issuer.calls != 0 {
				t.Fatal("validation failure must not reach upstream clients")
			}
		})
	}
}

func TestCustomTokenSuccess(t *testing.T) {
	identity := &fakeIdentity{profile: testProfile()}
	issuer := &fakeIssuer{token: "minted-token"}
	router := newTestRouter(t, identity, issuer, &fakeConclusion{})

	resp, body := doJSON(t, router, http.MethodPost, "/auth/kakao/custom-token",
		`{"kakao_access_token":"valid-token"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	if body["success"] != true {
		t.Fatalf("success = %v", body["success"])
	}
	if body["firebase_custom_token"] != "minted-token" {
		t.Fatalf("firebase_custom_token = %v", body["firebase_custom_token"])
	}
	if _, ok := body["processing_time_ms"]; !ok {
		t.Fatal("processing_time_ms missing")
	}

	userInfo, ok := body["user_info"].(map[string]any)
	if !ok {
		t.Fatalf("user_info = %v", body["user_info"])
	}
	if userInfo["uid"] != "12345" {
		t.Fatalf("uid = %v", userInfo["uid"])
	}
	if userInfo["kakao_id"] != float64(12345) {
		t.Fatalf("kakao_id = %v", userInfo["kakao_id"])
	}
	if userInfo["provider"] != "kakao" {
		t.Fatalf("provider = %v", userInfo["provider"])
	}
	if userInfo["email"] != "tester@example.com" || userInfo["email_verified"] != true {
		t.Fatalf("email fields = %v", userInfo)
	}
}

func TestCustomTokenNullsMissingProfileFields(t *testing.T) {
	identity := &fakeIdentity{profile: &kakao.UserInfo{ID: 777}}
	router := newTestRouter(t, identity, &fakeIssuer{token: "minted"}, &fakeConclusion{})

	resp, body := doJSON(t, router, http.MethodPost, "/auth/kakao/custom-token",
		`{"kakao_access_token":"valid-token"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}

	userInfo := body["user_info"].(map[string]any)
	for _, field := range []string{"email", "name", "picture"} {
		if value, ok := userInfo[field]; !ok || value != nil {
			t.Fatalf("%s = %v, want null", field, value)
		}
	}
}

func TestCustomTokenErrorMapping(t *testing.T) {
	cases := []struct {
		name        string
		identityErr error
		issuerErr   error
		wantStatus  int
		wantCode    string
	}{
		{"invalid kakao token", kakao.ErrInvalidToken, nil, http.StatusUnauthorized, "INVALID_KAKAO_TOKEN"},
		{"kakao forbidden", kakao.ErrForbidden, nil, http.StatusForbidden, "KAKAO_API_FORBIDDEN"},
		{"kakao unreachable", kakao.ErrNetwork, nil, http.StatusServiceUnavailable, "KAKAO_API_UNAVAILABLE"},
		{"firebase minting failed", nil, errors.New("rpc broke"), http.StatusInternalServerError, "AUTHENTICATION_FAILED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			identity := &fakeIdentity{profile: testProfile(), err: tc.identityErr}
			issuer := &fakeIssuer{token: "minted", err: tc.issuerErr}
			router := newTestRouter(t, identity, issuer, &fakeConclusion{})

			resp, body := doJSON(t, router, http.MethodPost, "/auth/kakao/custom-token",
				`{"kakao_access_token":"valid-token"}`)
			if resp.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", resp.Code, tc.wantStatus)
			}
			if body["code"] != tc.wantCode {
				t.Fatalf("code = %v, want %s", body["code"], tc.wantCode)
			}
			if _, ok := body["processing_time_ms"]; !ok {
				t.Fatal("processing_time_ms missing from classified error")
			}
		})
	}
}

func TestExchangeCodeValidation(t *testing.T) {
	identity := &fakeIdentity{token: "kakao-access"}
	router := newTestRouter(t, identity, &fakeIssuer{}, &fakeConclusion{})

	resp, body := doJSON(t, router, http.MethodPost, "/auth/kakao/exchange-code",
		`{"redirect_uri":"https://app.example.com/cb"}`)
	if resp.Code != http.StatusBadRequest || body["code"] != "MISSING_AUTHORIZATION_CODE" {
		t.Fatalf("missing code: status=%d code=%v", resp.Code, body["code"])
	}

	resp, body = doJSON(t, router, http.MethodPost, "/auth/kakao/exchange-code",
		`{"authorization_code":"abc"}`)
	if resp.Code != http.StatusBadRequest || body["code"] != "MISSING_REDIRECT_URI" {
		t.Fatalf("missing redirect: status=%d code=%v", resp.Code, body["code"])
	}

	if identity.exchangeCalls != 0 {
		t.Fatal("validation failure must not reach Kakao")
	}
}

func TestExchangeCodeSuccess(t *testing.T) {
	identity := &fakeIdentity{token: "kakao-access"}
	router := newTestRouter(t, identity, &fakeIssuer{}, &fakeConclusion{})

	resp, body := doJSON(t, router, http.MethodPost, "/auth/kakao/exchange-code",
		`{"authorization_code":"abc","redirect_uri":"https://app.example.com/cb"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	if body["access_token"] != "kakao-access" || body["success"] != true {
		t.Fatalf("body = %v", body)
	}
}

func TestExchangeCodeErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid code", kakao.ErrInvalidAuthorizationCode, http.StatusBadRequest, "INVALID_AUTHORIZATION_CODE"},
		{"bad credentials", kakao.ErrInvalidClientCredentials, http.StatusUnauthorized, "KAKAO_AUTH_FAILED"},
		{"generic failure", errors.New("boom"), http.StatusInternalServerError, "CODE_EXCHANGE_FAILED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			identity := &fakeIdentity{err: tc.err}
			router := newTestRouter(t, identity, &fakeIssuer{}, &fakeConclusion{})

			resp, body := doJSON(t, router, http.MethodPost, "/auth/kakao/exchange-code",
				`{"authorization_code":"abc","redirect_uri":"https://app.example.com/cb"}`)
			if resp.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", resp.Code, tc.wantStatus)
			}
			if body["code"] != tc.wantCode {
				t.Fatalf("code = %v, want %s", body["code"], tc.wantCode)
			}
		})
	}
}

func courtRequestBody() string {
	return `{"court_session_data":{
		"case_title":"Case A",
		"case_description":"A dispute",
		"chat_messages":[{"sender_name":"u1","message":"m1"}],
		"votes":[{"verdict":"guilty","reasoning":"clear"}],
		"session_duration":"30m"
	}}`
}

func TestGenerateConclusionValidation(t *testing.T) {
	svc := &fakeConclusion{}
	router := newTestRouter(t, &fakeIdentity{}, &fakeIssuer{}, svc)

	resp, body := doJSON(t, router, http.MethodPost, "/court/generate-conclusion", `{}`)
	if resp.Code != http.StatusBadRequest || body["code"] != "MISSING_COURT_DATA" {
		t.Fatalf("missing data: status=%d code=%v", resp.Code, body["code"])
	}

	resp, body = doJSON(t, router, http.MethodPost, "/court/generate-conclusion", "")
	if resp.Code != http.StatusBadRequest || body["code"] != "MISSING_COURT_DATA" {
		t.Fatalf("empty body: status=%d code=%v", resp.Code, body["code"])
	}

	incomplete := `{"court_session_data":{"case_title":"Case A"}}`
	resp, body = doJSON(t, router, http.MethodPost, "/court/generate-conclusion", incomplete)
	if resp.Code != http.StatusBadRequest || body["code"] != "INCOMPLETE_COURT_DATA" {
		t.Fatalf("incomplete data: status=%d code=%v", resp.Code, body["code"])
	}

	if svc.calls != 0 {
		t.Fatal("validation failure must not reach the conclusion service")
	}
}

func TestGenerateConclusionSuccess(t *testing.T) {
	svc := &fakeConclusion{result: &court.ConclusionResult{
		Verdict:            court.VerdictGuilty,
		VoteBreakdown:      court.VoteBreakdown{Guilty: 1, NotGuilty: 0, Total: 1},
		AIGeneratedSummary: "summary text",
		ConfidenceScore:    100,
		GeneratedAt:        time.Now().UTC(),
	}}
	router := newTestRouter(t, &fakeIdentity{}, &fakeIssuer{}, svc)

	resp, body := doJSON(t, router, http.MethodPost, "/court/generate-conclusion", courtRequestBody())
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	if body["success"] != true {
		t.Fatalf("success = %v", body["success"])
	}

	conclusion := body["conclusion"].(map[string]any)
	if conclusion["verdict"] != "GUILTY" || conclusion["ai_generated_summary"] != "summary text" {
		t.Fatalf("conclusion = %v", conclusion)
	}

	metadata := body["metadata"].(map[string]any)
	if metadata["case_title"] != "Case A" {
		t.Fatalf("case_title = %v", metadata["case_title"])
	}
	if metadata["total_messages"] != float64(1) || metadata["total_votes"] != float64(1) {
		t.Fatalf("counts = %v", metadata)
	}
	if metadata["ai_model"] != "gemini-1.5-flash" {
		t.Fatalf("ai_model = %v", metadata["ai_model"])
	}
	if metadata["session_duration"] != "30m" {
		t.Fatalf("session_duration = %v", metadata["session_duration"])
	}
	if _, ok := metadata["processing_time_ms"]; !ok {
		t.Fatal("processing_time_ms missing from metadata")
	}
}

func TestGenerateConclusionErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid key", gemini.ErrInvalidAPIKey, http.StatusUnauthorized, "INVALID_GEMINI_API_KEY"},
		{"quota", gemini.ErrQuotaExceeded, http.StatusTooManyRequests, "GEMINI_QUOTA_EXCEEDED"},
		{"safety", gemini.ErrSafetyBlocked, http.StatusBadRequest, "CONTENT_SAFETY_VIOLATION"},
		{"generic", errors.New("model offline"), http.StatusInternalServerError, "AI_GENERATION_FAILED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeConclusion{err: tc.err}
			router := newTestRouter(t, &fakeIdentity{}, &fakeIssuer{}, svc)

			resp, body := doJSON(t, router, http.MethodPost, "/court/generate-conclusion", courtRequestBody())
			if resp.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", resp.Code, tc.wantStatus)
			}
			if body["code"] != tc.wantCode {
				t.Fatalf("code = %v, want %s", body["code"], tc.wantCode)
			}
		})
	}
}

func TestNoRouteEchoesMethodAndPath(t *testing.T) {
	router := newTestRouter(t, &fakeIdentity{}, &fakeIssuer{}, &fakeConclusion{})

	resp, body := doJSON(t, router, http.MethodPut, "/nope/nothing", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d", resp.Code)
	}
	if body["code"] != "ENDPOINT_NOT_FOUND" {
		t.Fatalf("code = %v", body["code"])
	}
	if body["message"] != "Endpoint PUT /nope/nothing not found" {
		t.Fatalf("message = %v", body["message"])
	}
	endpoints, ok := body["available_endpoints"].([]any)
	if !ok || len(endpoints) == 0 {
		t.Fatalf("available_endpoints = %v", body["available_endpoints"])
	}
}

func TestPanicRecoveredAsInternalError(t *testing.T) {
	router := newTestRouter(t, &fakeIdentity{}, &fakeIssuer{}, &fakeConclusion{})
	router.GET("/boom", func(*gin.Context) { panic("unexpected") })

	resp, body := doJSON(t, router, http.MethodGet, "/boom", "")
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.Code)
	}
	if body["code"] != "INTERNAL_ERROR" {
		t.Fatalf("code = %v", body["code"])
	}
	if body["message"] != "Something went wrong on our end" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestSecurityHeadersOnResponses(t *testing.T) {
	router := newTestRouter(t, &fakeIdentity{}, &fakeIssuer{}, &fakeConclusion{})

	resp, _ := doJSON(t, router, http.MethodGet, "/health", "")
	if resp.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("security headers missing")
	}
}
