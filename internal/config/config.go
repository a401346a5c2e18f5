package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath         string
	PollInterval   time.Duration
	AITimeout      time.Duration
	GPT4AllURL     string
	TelegramToken  string
	TelegramChatID int64
	Bell           bool
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: reading .env: %v", err)
	}

	poll, err := getEnvDuration("ONTOAI_POLL_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	timeout, err := getEnvDuration("ONTOAI_AI_TIMEOUT", 90*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:        getEnv("ONTOAI_DB_PATH", "onto-ai.db"),
		PollInterval:  poll,
		AITimeout:     timeout,
		GPT4AllURL:    getEnv("ONTOAI_GPT4ALL_URL", ""),
		TelegramToken: getEnv("ONTOAI_TELEGRAM_TOKEN", ""),
		Bell:          getEnvBool("ONTOAI_BELL", true),
	}

	if raw := getEnv("ONTOAI_TELEGRAM_CHAT_ID", ""); raw != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ONTOAI_TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}
	return cfg, nil
}

// TelegramEnabled reports whether reminders should also go to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return d, nil
}
