package config

import (
	"os"
	"strconv"
	"time"

	"tasker_backend/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string

	// Blob storage
	UploadDir        string
	FilePublicPrefix string

	// Auth. Empty secret disables the JWT middleware.
	JWTSecret string

	// Redis rate limiting (fail-open when unset)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	APIRateLimit  int
	APIRateWindow time.Duration

	// Deferred blob deletion sweep
	SweepInterval time.Duration
	SweepBatch    int

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment, with an optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}

	filePrefix := os.Getenv("FILE_PUBLIC_PREFIX")
	if filePrefix == "" {
		filePrefix = "/files"
	}

	return &Config{
		AppPort:          port,
		DatabaseURL:      dbURL,
		UploadDir:        uploadDir,
		FilePublicPrefix: filePrefix,
		JWTSecret:        os.Getenv("JWT_SECRET"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          envInt("REDIS_DB", 0),
		APIRateLimit:     envInt("API_RATE_LIMIT", 60),
		APIRateWindow:    envSeconds("API_RATE_WINDOW_SECONDS", time.Minute),
		SweepInterval:    envSeconds("BLOB_SWEEP_INTERVAL_SECONDS", 5*time.Minute),
		SweepBatch:       envInt("BLOB_SWEEP_BATCH", 50),
		LogLevel:         envDefault("LOG_LEVEL", "info"),
		LogJSON:          os.Getenv("LOG_JSON") == "true",
	}
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
