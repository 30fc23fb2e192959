package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string

	UploadDir      string
	MaxUploadBytes int64

	ImportChunkSize int
	ImportWorkers   int

	StreamInterval     time.Duration
	StreamErrorBackoff time.Duration

	WebhookTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment, consulting an optional
// .env file first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	cfg := &Config{
		DatabaseURL:        databaseURL,
		Port:               getEnv("PORT", "8080"),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes:     int64(intEnv("MAX_UPLOAD_MB", 500)) * 1024 * 1024,
		ImportChunkSize:    intEnv("IMPORT_CHUNK_SIZE", 10000),
		ImportWorkers:      workerCount(),
		StreamInterval:     time.Duration(intEnv("STREAM_INTERVAL_MS", 50)) * time.Millisecond,
		StreamErrorBackoff: time.Duration(intEnv("STREAM_ERROR_BACKOFF_MS", 1000)) * time.Millisecond,
		WebhookTimeout:     time.Duration(intEnv("WEBHOOK_TIMEOUT_SECONDS", 10)) * time.Second,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}

	return cfg, nil
}

func workerCount() int {
	workers := intEnv("IMPORT_WORKERS", 4)
	if workers <= 0 {
		return 4
	}
	if workers > 10 {
		return 10
	}
	return workers
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
