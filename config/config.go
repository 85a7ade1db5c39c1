package config

import (
	"encoding/base64"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"qr-attendance-backend/pkg/payroll"
)

type AppConfig struct {
	Port          string
	MONGOSTRING   string
	PASETO_SECRET string

	// TokenSecret feeds the digest embedded in single-use check-in/out tokens.
	TokenSecret string

	// DeepLinkPrefix is prepended to issued tokens when rendering QR codes,
	// e.g. "https://t.me/attendance_bot?start=".
	DeepLinkPrefix string

	Payroll payroll.Settings
}

// LoadConfig loads configuration from .env file
func LoadConfig() *AppConfig {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file (might not exist in production): %v", err)
	}

	// Development fallback; must decode to exactly 32 bytes.
	secretBase64 := getEnv("PASETO_SECRET", "YWFhYWFhYWFhYWFhYWFhYWFhYWFhYWFhYWFhYWFhYWE=")

	secretBytes, err := base64.URLEncoding.DecodeString(secretBase64)
	if err != nil {
		log.Fatalf("PASETO_SECRET in .env is not a valid Base64 URL-encoded string: %v", err)
	}

	if len(secretBytes) != 32 {
		log.Fatalf("PASETO_SECRET (decoded) must be exactly 32 bytes long. Current length: %d", len(secretBytes))
	}

	return &AppConfig{
		Port:           getEnv("PORT", "3000"),
		MONGOSTRING:    getEnv("MONGOSTRING", ""),
		PASETO_SECRET:  secretBase64,
		TokenSecret:    getEnv("TOKEN_SECRET", "change-me-attendance-secret"),
		DeepLinkPrefix: getEnv("DEEP_LINK_PREFIX", "https://t.me/attendance_bot?start="),
		Payroll: payroll.Settings{
			HourlyRate:   getEnvFloat("HOURLY_RATE", 10000),
			LunchStart:   getEnv("LUNCH_START", "13:00:00"),
			LunchEnd:     getEnv("LUNCH_END", "14:00:00"),
			LateCutoff:   getEnv("LATE_CUTOFF", "09:00:00"),
			MaxPaidHours: getEnvFloat("MAX_PAID_HOURS", 9),
		},
	}
}

// Helper function to get environment variable or fallback to default
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
