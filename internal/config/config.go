package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Admin auth: comma-separated bearer tokens
	AdminTokens []string

	// Currency formatting for operator-facing output
	CurrencyCode   string
	CurrencyLocale string

	// Scheduler cron expressions (UTC)
	SweepCron    string
	ReminderCron string

	// Expiry reminder window in days; 0 disables reminders
	ReminderDays int

	// SMTP for expiry reminder email
	SMTP SMTPConfig
}

// SMTPConfig holds outbound mail configuration. An empty host disables
// the mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		Port:           getEnv("PORT", "8080"),
		CORSOrigins:    strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:            getEnv("ENV", "development"),
		AdminTokens:    splitNonEmpty(getEnv("ADMIN_API_TOKENS", "")),
		CurrencyCode:   getEnv("CURRENCY_CODE", "MAD"),
		CurrencyLocale: getEnv("CURRENCY_LOCALE", "en"),
		SweepCron:      getEnv("SWEEP_CRON", "0 3 * * *"),
		ReminderCron:   getEnv("REMINDER_CRON", "0 8 * * *"),
		ReminderDays:   getEnvInt("REMINDER_DAYS", 7),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "noreply@weblease.app"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if len(c.AdminTokens) == 0 {
		return fmt.Errorf("ADMIN_API_TOKENS is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
