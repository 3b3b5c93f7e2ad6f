package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port        string
	Env         string
	APIUrl      string
	FrontendURL string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Media storage
	UploadDir          string
	UploadMaxImageSize int64
	FetchTimeout       time.Duration
	ReconcileInterval  time.Duration // 0 disables the periodic sweep

	// Security
	RateLimitRequests int
	RateLimitDuration time.Duration
	UploadMaxPerDay   int

	// CORS
	AllowedOrigins []string
}

func New() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		APIUrl:      getEnv("API_URL", "http://localhost:8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "wayspot"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "wayspot_db"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// Media storage
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		UploadMaxImageSize: int64(getEnvAsInt("UPLOAD_MAX_IMAGE_SIZE", 10*1024*1024)),
		FetchTimeout:       getEnvAsDuration("FETCH_TIMEOUT", "15s"),
		ReconcileInterval:  getEnvAsDuration("RECONCILE_INTERVAL", "0s"),

		// Security
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitDuration: getEnvAsDuration("RATE_LIMIT_DURATION", "1m"),
		UploadMaxPerDay:   getEnvAsInt("UPLOAD_MAX_PER_DAY", 200),

		// CORS
		AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	if duration, err := time.ParseDuration(defaultValue); err == nil {
		return duration
	}
	return time.Hour
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
