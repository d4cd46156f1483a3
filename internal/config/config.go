// Package config reads service configuration from the environment.
package config

import (
	"os"
	"strconv"
)

// Config holds all externally provided settings. Secrets come from the
// environment only; nothing here is persisted.
type Config struct {
	Port    int
	DBPath  string // empty = default path
	DevMode bool

	JWTSecret string

	StripeSecretKey     string
	StripeWebhookSecret string

	UploadURL    string
	UploadPreset string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// FromEnv creates a Config from RENTORA_* environment variables.
func FromEnv() Config {
	return Config{
		Port:    envInt("RENTORA_PORT", 8080),
		DBPath:  os.Getenv("RENTORA_DB"),
		DevMode: os.Getenv("RENTORA_DEV_MODE") == "true",

		JWTSecret: os.Getenv("RENTORA_JWT_SECRET"),

		StripeSecretKey:     os.Getenv("RENTORA_STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("RENTORA_STRIPE_WEBHOOK_SECRET"),

		UploadURL:    os.Getenv("RENTORA_UPLOAD_URL"),
		UploadPreset: os.Getenv("RENTORA_UPLOAD_PRESET"),

		SMTPHost: os.Getenv("RENTORA_SMTP_HOST"),
		SMTPPort: envOrDefault("RENTORA_SMTP_PORT", "587"),
		SMTPUser: os.Getenv("RENTORA_SMTP_USER"),
		SMTPPass: os.Getenv("RENTORA_SMTP_PASS"),
		SMTPFrom: os.Getenv("RENTORA_SMTP_FROM"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
