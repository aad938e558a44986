package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App   AppConfig
	Cache CacheConfig
	Keys  APIKeys
	Ai    AIConfig
	TTS   TTSConfig
	Retry RetryConfig
	OTel  OTelConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

type CacheConfig struct {
	Backend string // "memory" or "redis"
	TTL     time.Duration
}

type APIKeys struct {
	Groq         string
	GoogleGemini string
	TTS          string
}

type AIConfig struct {
	LLMProvider   string // "groq", "gemini" or "ollama"
	LLMModel      string // empty = provider default
	LLMBaseURL    string
	OllamaBaseURL string
}

type TTSConfig struct {
	BaseURL string
}

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

type OTelConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Cache: CacheConfig{
			Backend: getEnv("CACHE_BACKEND", "memory"),
			TTL:     getEnvAsDuration("CACHE_TTL", 0),
		},
		Keys: APIKeys{
			Groq:         getEnv("GROQ_API_KEY", ""),
			GoogleGemini: getEnv("GEMINI_API_KEY", ""),
			TTS:          getEnv("TTS_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "groq"),
			LLMModel:      getEnv("LLM_MODEL", ""),
			LLMBaseURL:    getEnv("LLM_BASE_URL", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		TTS: TTSConfig{
			BaseURL: getEnv("TTS_BASE_URL", "https://api.ttsopenai.com"),
		},
		Retry: RetryConfig{
			MaxAttempts: getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			BaseDelay:   getEnvAsDuration("RETRY_BASE_DELAY", time.Second),
		},
		OTel: OTelConfig{
			Enabled:  getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

// LLMKey returns the API key for the configured provider. Ollama needs none.
func (c *Config) LLMKey() string {
	switch c.Ai.LLMProvider {
	case "gemini":
		return c.Keys.GoogleGemini
	case "ollama":
		return ""
	default:
		return c.Keys.Groq
	}
}

// LLMBaseURL resolves the upstream base URL, preferring LLM_BASE_URL.
func (c *Config) LLMBaseURL() string {
	if c.Ai.LLMBaseURL != "" {
		return c.Ai.LLMBaseURL
	}
	if c.Ai.LLMProvider == "ollama" {
		return c.Ai.OllamaBaseURL
	}
	return ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
