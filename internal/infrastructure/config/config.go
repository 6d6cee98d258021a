package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr           string
	DatabaseURL    string
	JWTSecret      string
	MaxUploadBytes int
	SessionTTL     time.Duration
	LogLevel       string
	LogFormat      string
	AllowOrigins   string
}

// Load reads configuration from environment variables. Call godotenv.Load
// first to pick up a .env file.
func Load() Config {
	return Config{
		Addr:           getenv("ARULES_ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		MaxUploadBytes: getInt("ARULES_MAX_UPLOAD_MB", 10) * 1024 * 1024,
		SessionTTL:     getDuration("ARULES_SESSION_TTL", 24*time.Hour),
		LogLevel:       strings.ToLower(getenv("ARULES_LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getenv("ARULES_LOG_FORMAT", "text")),
		AllowOrigins:   getenv("ARULES_ALLOW_ORIGINS", "*"),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
