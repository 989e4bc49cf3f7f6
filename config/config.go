package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config stores the application configuration. Values come from the
// environment (optionally via a .env file) with simple defaults.
type Config struct {
	ServerAddr  string
	Environment string

	// Redis, the key-value document store holding profiles, track and
	// playlist records, and the per-user id indexes.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// MinIO, the object store holding audio bytes and avatars. Buckets
	// are private; clients only ever receive presigned URLs.
	MinioEndpoint     string
	MinioAccessKey    string
	MinioSecretKey    string
	MinioUseSSL       bool
	MinioRegion       string
	MinioAudioBucket  string
	MinioAvatarBucket string

	// Session tokens
	JWTSecret   string
	JWTTTLHours int

	// Logging
	LogLevel string
	LogPath  string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	return &Config{
		ServerAddr:  getEnv("SERVER_ADDR", ":8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MinioEndpoint:     getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey:    getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:    os.Getenv("MINIO_SECRET_KEY"), // no hardcoded default for secrets
		MinioUseSSL:       getEnvBool("MINIO_USE_SSL", false),
		MinioRegion:       getEnv("MINIO_REGION", "us-east-1"),
		MinioAudioBucket:  getEnv("MINIO_AUDIO_BUCKET", "wavehub-audio"),
		MinioAvatarBucket: getEnv("MINIO_AVATAR_BUCKET", "wavehub-avatars"),

		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTLHours: getEnvInt("JWT_TTL_HOURS", 72),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogPath:  getEnv("LOG_PATH", ""),
	}
}
