package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
	Storage  StorageConfig
	Topics   TopicConfig
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
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	OpenAI string
	Stripe string
}

type AIConfig struct {
	Provider        string // "openai"
	BaseURL         string
	ChatPreset      string // "baseline", "fast" or "optimized"
	EmbeddingModel  string
	TranscribeModel string
	SynthesizeModel string
	ImageModel      string
}

type StorageConfig struct {
	Bucket string
}

type TopicConfig struct {
	SaveImage    string
	EmbedMessage string
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
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "AI Chat"),
		},
		Keys: APIKeys{
			OpenAI: getEnv("OPENAI_API_KEY", ""),
			Stripe: getEnv("STRIPE_SECRET_KEY", ""),
		},
		Ai: AIConfig{
			Provider:        getEnv("LLM_PROVIDER", "openai"),
			BaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
			ChatPreset:      getEnv("CHAT_PIPELINE_PRESET", "optimized"),
			EmbeddingModel:  getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			TranscribeModel: getEnv("TRANSCRIBE_MODEL", "whisper-1"),
			SynthesizeModel: getEnv("SYNTHESIZE_MODEL", "tts-1"),
			ImageModel:      getEnv("IMAGE_MODEL", "dall-e-3"),
		},
		Storage: StorageConfig{
			Bucket: getEnv("GCS_BUCKET_NAME", "generated-images"),
		},
		Topics: TopicConfig{
			SaveImage:    getEnv("SAVE_IMAGE_TOPIC_NAME", "SAVE_GENERATED_IMAGE"),
			EmbedMessage: getEnv("EMBED_MESSAGE_TOPIC_NAME", "EMBED_CHAT_MESSAGE"),
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
