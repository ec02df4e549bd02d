// Package config reads runtime settings from the environment, loading a
// .env file first when one is present.
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

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendMongo  = "mongo"
)

type Config struct {
	Port       string
	JWTSecret  string
	SessionTTL time.Duration

	StorageBackend string
	DataDir        string
	MongoURI       string
	MongoDatabase  string

	PostmarkToken  string
	SendGridAPIKey string
	EmailSender    string

	ChatEndpoint     string
	ChatTimeout      time.Duration
	ChatHistoryLimit int

	LogLevel string
}

// Load reads .env if it exists and then the environment. A missing .env is
// not an error; malformed values are.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8000"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory)),
		DataDir:        getEnv("DATA_DIR", "./data"),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGODB_DATABASE", "restaurant"),
		PostmarkToken:  os.Getenv("POSTMARK_API_TOKEN"),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		EmailSender:    getEnv("EMAIL_SENDER", "restaurant@mediterraneandelight.com"),
		ChatEndpoint:   getEnv("CHAT_ENDPOINT", "http://localhost:5000/api/chat"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 720*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ChatTimeout, err = getDuration("CHAT_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.ChatHistoryLimit, err = getInt("CHAT_HISTORY_LIMIT", 20); err != nil {
		return nil, err
	}

	switch cfg.StorageBackend {
	case BackendMemory, BackendFile, BackendMongo:
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND: unknown backend %q", cfg.StorageBackend)
	}
	return cfg, nil
}

// ValidateServe checks the settings only the HTTP server needs.
func (c *Config) ValidateServe() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", key, v)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
