package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN          string
	RedisAddr      string
	WebhookURL     string
	TelegramToken  string
	TelegramChatID string
	AuthSecret     string
	Timezone       string
	Environment    string
}

// Load reads configuration from the environment, optionally seeded
// from a .env file. WebhookURL, RedisAddr and the Telegram settings
// are optional; leaving them empty disables the corresponding feature.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		WebhookURL:     os.Getenv("WEBHOOK_URL"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),
		AuthSecret:     os.Getenv("AUTH_SECRET"),
		Timezone:       os.Getenv("CLINIC_TZ"),
		Environment:    os.Getenv("ENV"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "America/Santiago"
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.AuthSecret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required but not set")
	}

	return cfg, nil
}

// Location resolves the clinic timezone every date key is derived in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
