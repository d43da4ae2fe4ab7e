package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Keys     APIKeys
	Ai       AIConfig
	Calendar CalendarConfig
}

type AppConfig struct {
	Port                 string
	Environment          string
	LogFilePath          string
	FeedLogFilePath      string
	CorsAllowedOrigins   string
	JWTSecret            string
	NatsURL              string
	RelatednessTopicName string
}

type StorageConfig struct {
	Driver     string // "memory", "postgres" or "redis"
	Connection string
	RedisURL   string
}

type APIKeys struct {
	AI                 string
	GoogleClientID     string
	GoogleClientSecret string
}

type AIConfig struct {
	LLMProvider        string // "openai" or "ollama"
	BaseURL            string
	Model              string
	TranscriptionModel string
	MaxTokens          int
	RateLimitRPS       int
	OllamaBaseURL      string
	OllamaModel        string
}

type CalendarConfig struct {
	Enabled    bool
	CalendarID string
	TimeZone   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                 getEnv("APP_PORT", "3000"),
			Environment:          getEnv("GO_ENV", "development"),
			LogFilePath:          getEnv("LOG_FILE_PATH", "logs/app.log"),
			FeedLogFilePath:      getEnv("FEED_LOG_FILE_PATH", "logs/discover_feed.log"),
			CorsAllowedOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			JWTSecret:            getEnv("JWT_SECRET", ""),
			NatsURL:              getEnv("NATS_URL", ""),
			RelatednessTopicName: getEnv("RELATEDNESS_TOPIC_NAME", "NOTE_RELATEDNESS"),
		},
		Storage: StorageConfig{
			Driver:     getEnv("STORAGE_DRIVER", "memory"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Keys: APIKeys{
			AI:                 getEnv("AI_API_KEY", ""),
			GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		},
		Ai: AIConfig{
			LLMProvider:        getEnv("LLM_PROVIDER", "openai"),
			BaseURL:            getEnv("AI_BASE_URL", "https://api.openai.com/v1"),
			Model:              getEnv("AI_MODEL", "gpt-4o-mini"),
			TranscriptionModel: getEnv("AI_TRANSCRIPTION_MODEL", "whisper-1"),
			MaxTokens:          getEnvAsInt("AI_MAX_TOKENS", 1500),
			RateLimitRPS:       getEnvAsInt("AI_RATE_LIMIT_RPS", 2),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:        getEnv("OLLAMA_MODEL", "llama3"),
		},
		Calendar: CalendarConfig{
			Enabled:    getEnvAsBool("CALENDAR_ENABLED", true),
			CalendarID: getEnv("CALENDAR_ID", "primary"),
			TimeZone:   getEnv("CALENDAR_TIMEZONE", "UTC"),
		},
	}
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
