package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Alignment AlignmentConfig
	Topics    TopicConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider         string // "ollama" or "gemini"
	LLMModel            string
	OllamaBaseURL       string
	GoogleGeminiKey     string
	EmbeddingProvider   string // "ollama" or "gemini"
	EmbeddingModel      string
	EmbeddingDimensions int
}

// AlignmentConfig carries the alignment-run knobs. The defaults are the
// documented operating point; they exist as env vars for load testing, not
// everyday tuning.
type AlignmentConfig struct {
	BatchSize         int // slides classified concurrently per batch
	BatchDelaySeconds int // pause between batches, rate-limit headroom
}

type TopicConfig struct {
	RunAlignment      string
	EnrichCardConcept string
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
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:         getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:            getEnv("LLM_MODEL", "gemini-2.0-flash"),
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			GoogleGeminiKey:     getEnv("GOOGLE_GEMINI_API_KEY", ""),
			EmbeddingProvider:   getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingModel:      getEnv("EMBEDDING_MODEL", "text-embedding-004"),
			EmbeddingDimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 768),
		},
		Alignment: AlignmentConfig{
			BatchSize:         getEnvAsInt("ALIGNMENT_BATCH_SIZE", 3),
			BatchDelaySeconds: getEnvAsInt("ALIGNMENT_BATCH_DELAY_SECONDS", 2),
		},
		Topics: TopicConfig{
			RunAlignment:      getEnv("RUN_ALIGNMENT_TOPIC_NAME", "RUN_ALIGNMENT"),
			EnrichCardConcept: getEnv("ENRICH_CARD_CONCEPT_TOPIC_NAME", "ENRICH_CARD_CONCEPT"),
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
