package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string
	LogLevel   string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OpenSearchAddr  string
	OpenSearchIndex string

	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIEmbedModel string

	ClipEndpoint string

	TesseractBinary string

	OutputDir string

	HTTPFetchTimeout time.Duration
	RenderTimeout    time.Duration
	CaptureTimeout   time.Duration
	OCRTimeout       time.Duration
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "user"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresDB:       getEnv("POSTGRES_DB", "shopscout"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		OpenSearchAddr:   getEnv("OPENSEARCH_ADDR", ""),
		OpenSearchIndex:  getEnv("OPENSEARCH_INDEX", "products"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIEmbedModel: getEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
		ClipEndpoint:     getEnv("CLIP_ENDPOINT", ""),
		TesseractBinary:  getEnv("TESSERACT_BINARY", "tesseract"),
		OutputDir:        getEnv("OUTPUT_DIR", "output"),
		HTTPFetchTimeout: getEnvAsDuration("HTTP_FETCH_TIMEOUT_SECONDS", 15) * time.Second,
		RenderTimeout:    getEnvAsDuration("RENDER_TIMEOUT_SECONDS", 30) * time.Second,
		CaptureTimeout:   getEnvAsDuration("CAPTURE_TIMEOUT_SECONDS", 45) * time.Second,
		OCRTimeout:       getEnvAsDuration("OCR_TIMEOUT_SECONDS", 30) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback))
}
