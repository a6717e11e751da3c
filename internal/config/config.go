package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"

	RunModeLongpoll = "longpoll"
	RunModeWebhook  = "webhook"
)

// Config holds all application configuration
type Config struct {
	BotToken      string
	AdminUsername string
	CatalogPath   string
	Development   bool
	Telegram      TelegramConfig
	Storage       StorageConfig
	Database      DatabaseConfig
}

// TelegramConfig holds update delivery settings
type TelegramConfig struct {
	RunMode        string
	PollTimeoutSec int
	WebhookListen  string
	WebhookURL     string
}

// StorageConfig selects the state store backend
type StorageConfig struct {
	Driver  string
	DataDir string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	pollTimeout, err := strconv.Atoi(getEnv("POLL_TIMEOUT", "10"))
	if err != nil || pollTimeout <= 0 {
		return nil, fmt.Errorf("POLL_TIMEOUT must be a positive number of seconds")
	}

	cfg := &Config{
		BotToken:      os.Getenv("BOT_TOKEN"),
		AdminUsername: strings.TrimPrefix(strings.TrimSpace(os.Getenv("ADMIN_USERNAME")), "@"),
		CatalogPath:   getEnv("CATALOG_PATH", "catalog.yaml"),
		Development:   getEnv("APP_ENV", "production") == "development",
		Telegram: TelegramConfig{
			RunMode:        strings.ToLower(getEnv("RUN_MODE", RunModeLongpoll)),
			PollTimeoutSec: pollTimeout,
			WebhookListen:  getEnv("WEBHOOK_LISTEN", ":8443"),
			WebhookURL:     os.Getenv("WEBHOOK_URL"),
		},
		Storage: StorageConfig{
			Driver:  strings.ToLower(getEnv("STORAGE_DRIVER", StorageFile)),
			DataDir: getEnv("DATA_DIR", "data"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "orderbot"),
			User:     getEnv("DB_USER", "orderbot"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.AdminUsername == "" {
		return nil, fmt.Errorf("ADMIN_USERNAME is required")
	}

	switch cfg.Storage.Driver {
	case StorageFile:
	case StoragePostgres:
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("DB_PASSWORD is required for postgres storage")
		}
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q; allowed: file, postgres", cfg.Storage.Driver)
	}

	switch cfg.Telegram.RunMode {
	case RunModeLongpoll:
	case RunModeWebhook:
		if cfg.Telegram.WebhookURL == "" {
			return nil, fmt.Errorf("WEBHOOK_URL is required when RUN_MODE is webhook")
		}
	default:
		return nil, fmt.Errorf("invalid RUN_MODE %q; allowed: longpoll, webhook", cfg.Telegram.RunMode)
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
