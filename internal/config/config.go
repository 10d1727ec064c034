package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is constructed once at startup and treated as read-only afterwards.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB     DatabaseConfig
	Redis  RedisConfig
	Awin   AwinConfig
	Worker WorkerConfig
	Admin  AdminConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// AwinConfig contains credentials and publisher settings for the Awin network.
type AwinConfig struct {
	APIKey            string
	PublisherID       string
	TrackingCodeParam string
	FeedAPIKey        string
	FeedExtraColumns  []string
	DownloadDir       string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	FeedSyncInterval time.Duration
}

// AdminConfig identifies the single admin account allowed to trigger
// maintenance operations over HTTP.
type AdminConfig struct {
	Email        string
	PasswordHash string // bcrypt
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Awin
	cfg.Awin = AwinConfig{
		APIKey:            getEnv("AWIN_API_KEY", ""),
		PublisherID:       getEnv("AWIN_PUBLISHER_ID", ""),
		TrackingCodeParam: getEnv("AWIN_TRACKING_CODE_PARAM", "clickRef"),
		FeedAPIKey:        getEnv("AWIN_FEED_API_KEY", ""),
		FeedExtraColumns:  getEnvList("AWIN_FEED_EXTRA_COLUMNS"),
		DownloadDir:       getEnv("AWIN_DOWNLOAD_DIR", os.TempDir()),
	}

	// Admin
	cfg.Admin = AdminConfig{
		Email:        getEnv("ADMIN_EMAIL", ""),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	// Workers (durations)
	var err error
	if cfg.Worker.FeedSyncInterval, err = parseDurationEnv("FEED_SYNC_INTERVAL", "6h"); err != nil {
		return nil, fmt.Errorf("invalid FEED_SYNC_INTERVAL: %w", err)
	}

	// Basic validation
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}
	if cfg.Awin.APIKey == "" || cfg.Awin.PublisherID == "" {
		return nil, errors.New("awin configuration incomplete: ensure AWIN_API_KEY and AWIN_PUBLISHER_ID are set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getEnvList splits a comma-separated environment variable into trimmed,
// non-empty items. Returns nil when the variable is unset.
func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
