package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr         string
	GinMode          string
	DatabaseDriver   string
	DatabaseDSN      string
	SessionSecret    string
	SessionStore     string
	RedisHost        string
	RedisPort        string
	SnapshotInterval time.Duration
	AMQPURL          string
	EventsQueue      string
	LogLevel         string
	LogFormat        string
	ImageDir         string
	PublicURL        string
}

// Load reads configuration from the environment, after merging a .env file if one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("config: No .env file loaded", "error", err)
	}

	return &Config{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		DatabaseDriver:   getEnv("DB_DRIVER", "sqlite"),
		DatabaseDSN:      getEnv("DB_DSN", "workspace.db"),
		SessionSecret:    getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		SessionStore:     getEnv("SESSION_STORE", "cookie"),
		RedisHost:        getEnv("REDIS_HOST", "localhost"),
		RedisPort:        getEnv("REDIS_PORT", "6379"),
		SnapshotInterval: getEnvDuration("SNAPSHOT_INTERVAL", 30*time.Second),
		AMQPURL:          getEnv("AMQP_URL", ""),
		EventsQueue:      getEnv("EVENTS_QUEUE", "workspace.usage"),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", "json")),
		ImageDir:         getEnv("IMAGE_DIR", "img"),
		PublicURL:        getEnv("PUBLIC_URL", ""),
	}
}

// SlogLevel maps LogLevel to a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("config: Invalid duration, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return d
}
