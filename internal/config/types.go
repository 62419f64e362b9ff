package config

// KakaoConfig: 카카오 OAuth API 설정입니다.
type KakaoConfig struct {
	RESTAPIKey     string
	ClientSecret   string
	TokenURL       string
	UserInfoURL    string
	TimeoutSeconds int
}

// GeminiConfig: Gemini 모델 설정입니다.
type GeminiConfig struct {
	APIKeys         []string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	TimeoutSeconds  int
}

// PrimaryKey: 기본 API 키를 반환합니다.
func (g GeminiConfig) PrimaryKey() string {
	if len(g.APIKeys) == 0 {
		return ""
	}
	return g.APIKeys[0]
}

// FirebaseConfig: Firebase Admin SDK 설정입니다.
// CredentialsFile이 비어있으면 ADC(Application Default Credentials)를 사용한다.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

// RateLimitConfig: 요청 제한 설정입니다.
// 일반 요청과 /auth/* 요청에 서로 다른 한도를 적용한다.
type RateLimitConfig struct {
	GeneralLimit  int
	AuthLimit     int
	WindowMinutes int
	CacheSize     int
	StoreURL      string
	StoreRequired bool
}

// LoggingConfig: 로깅 설정입니다.
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPConfig: HTTP 서버 설정입니다.
type HTTPConfig struct {
	Host         string
	Port         int
	HTTP2Enabled bool
	MaxBodyMB    int
}

// ServiceConfig: 서비스 메타데이터 설정입니다.
type ServiceConfig struct {
	Name        string
	Version     string
	Environment string
}

// Config: 애플리케이션 전체 설정입니다.
type Config struct {
	Kakao     KakaoConfig
	Gemini    GeminiConfig
	Firebase  FirebaseConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
	HTTP      HTTPConfig
	Service   ServiceConfig
}
