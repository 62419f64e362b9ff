package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/joho/godotenv"
)

var (
	configOnce  sync.Once
	configValue *Config
)

// Load 는 환경 변수 기반 설정을 로드한다.
func Load() *Config {
	configOnce.Do(func() {
		_ = godotenv.Load()
		configValue = buildConfig()
	})
	return configValue
}

// ProvideConfig 는 설정을 로드하고 검증한다.
func ProvideConfig() (*Config, error) {
	cfg := Load()
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 는 설정 유효성을 검사한다.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Kakao.TokenURL == "" || c.Kakao.UserInfoURL == "" {
		return errors.New("kakao endpoints missing")
	}
	if c.Kakao.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid kakao timeout: %d", c.Kakao.TimeoutSeconds)
	}
	if c.Gemini.Model == "" {
		return errors.New("gemini model missing")
	}
	if c.RateLimit.WindowMinutes <= 0 {
		return fmt.Errorf("invalid rate limit window: %d", c.RateLimit.WindowMinutes)
	}
	return nil
}

// LogEnvStatus 는 환경 설정 상태를 로그로 남긴다.
func LogEnvStatus(cfg *Config, logger *slog.Logger) {
	if logger == nil || cfg == nil {
		return
	}

	envFilePresent := fileExists(".env")
	logger.Debug(
		"env_status",
		"env_file", envFilePresent,
		"kakao_rest_api_key", maskSecret(cfg.Kakao.RESTAPIKey),
		"kakao_client_secret", maskSecret(cfg.Kakao.ClientSecret),
		"gemini_keys", len(cfg.Gemini.APIKeys),
		"gemini_primary_key", maskSecret(cfg.Gemini.PrimaryKey()),
		"gemini_model", cfg.Gemini.Model,
		"firebase_project", cfg.Firebase.ProjectID,
		"rate_limit_store_url", cfg.RateLimit.StoreURL,
	)

	if cfg.Kakao.RESTAPIKey == "" {
		logger.Error("env_missing_kakao_rest_api_key")
	}
	if len(cfg.Gemini.APIKeys) == 0 {
		logger.Error("env_missing_gemini_api_key")
	}
}

func buildConfig() *Config {
	return &Config{
		Kakao: KakaoConfig{
			RESTAPIKey:     getEnvString("KAKAO_REST_API_KEY", ""),
			ClientSecret:   getEnvString("KAKAO_CLIENT_SECRET", ""),
			TokenURL:       getEnvString("KAKAO_TOKEN_URL", "https://kauth.kakao.com/oauth/token"),
			UserInfoURL:    getEnvString("KAKAO_USER_INFO_URL", "https://kapi.kakao.com/v2/user/me"),
			TimeoutSeconds: max(1, getEnvInt("KAKAO_TIMEOUT_SECONDS", 10)),
		},
		Gemini: GeminiConfig{
			APIKeys:         parseAPIKeys(),
			Model:           getEnvString("GEMINI_MODEL", "gemini-1.5-flash"),
			Temperature:     getEnvFloat("GEMINI_TEMPERATURE", 0.7),
			MaxOutputTokens: getEnvInt("GEMINI_MAX_TOKENS", 2048),
			TimeoutSeconds:  max(1, getEnvInt("GEMINI_TIMEOUT", 60)),
		},
		Firebase: FirebaseConfig{
			ProjectID:       getEnvString("FIREBASE_PROJECT_ID", ""),
			CredentialsFile: getEnvString("GOOGLE_APPLICATION_CREDENTIALS", ""),
		},
		RateLimit: RateLimitConfig{
			GeneralLimit:  getEnvNonNegativeInt("RATE_LIMIT_GENERAL", 100),
			AuthLimit:     getEnvNonNegativeInt("RATE_LIMIT_AUTH", 10),
			WindowMinutes: max(1, getEnvNonNegativeInt("RATE_LIMIT_WINDOW_MINUTES", 15)),
			CacheSize:     max(1, getEnvNonNegativeInt("RATE_LIMIT_CACHE_SIZE", 10000)),
			StoreURL:      getEnvString("RATE_LIMIT_STORE_URL", ""),
			StoreRequired: getEnvBool("RATE_LIMIT_STORE_REQUIRED", false),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			LogDir:     getEnvString("LOG_DIR", ""),
			MaxSizeMB:  getEnvInt("LOG_FILE_MAX_SIZE_MB", 1),
			MaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 30),
			MaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 7),
			Compress:   getEnvBool("LOG_FILE_COMPRESS", true),
		},
		HTTP: HTTPConfig{
			Host:         getEnvString("HTTP_HOST", "127.0.0.1"),
			Port:         getEnvInt("HTTP_PORT", 8080),
			HTTP2Enabled: getEnvBool("HTTP2_ENABLED", false),
			MaxBodyMB:    max(1, getEnvNonNegativeInt("HTTP_MAX_BODY_MB", 10)),
		},
		Service: ServiceConfig{
			Name:        getEnvString("SERVICE_NAME", "Silso Auth Backend"),
			Version:     getEnvString("SERVICE_VERSION", "1.0.0"),
			Environment: getEnvString("SERVICE_ENVIRONMENT", "production"),
		},
	}
}
