package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported document store drivers.
const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	ServiceName string
	ServerPort  string
	GinMode     string
	LogLevel    string
	LogFormat   string

	// StoreDriver selects the document store backend ("mongo" or "postgres").
	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string
	MaxDBConns    int32

	// StoreConnectTimeout bounds dialing and server selection.
	StoreConnectTimeout time.Duration
	// StoreTimeout bounds every single insert or find.
	StoreTimeout time.Duration

	// AllowedOrigins restricts CORS. Empty slice means every origin is
	// echoed back with credentials allowed.
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServiceName:         getEnv("SERVICE_NAME", "Academic Tracker API"),
		ServerPort:          getEnv("SERVER_PORT", "8000"),
		GinMode:             getEnv("GIN_MODE", "debug"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "pretty"),
		StoreDriver:         strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMongo)),
		MongoURI:            getEnv("MONGO_URI", ""),
		MongoDatabase:       getEnv("MONGO_DATABASE", "academic_tracker"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		MaxDBConns:          int32(getEnvInt("MAX_DB_CONNS", 8)),
		StoreConnectTimeout: time.Duration(getEnvInt("STORE_CONNECT_TIMEOUT_SECONDS", 5)) * time.Second,
		StoreTimeout:        time.Duration(getEnvInt("STORE_TIMEOUT_SECONDS", 5)) * time.Second,
		AllowedOrigins:      parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

// StoreTarget returns the connection string for the configured driver, or
// an empty string when none is set.
func (c *Config) StoreTarget() string {
	if c.StoreDriver == StoreDriverPostgres {
		return c.DatabaseURL
	}
	return c.MongoURI
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
