package config

import (
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

type AppConfig struct {
	// Server
	Port        string
	Env         string
	CORSOrigins []string

	// Database
	DatabaseURL string

	// Tokens are issued by the external auth provider; we only verify them.
	AuthJWTSecret string

	// Dashboard
	MonthlyGoal decimal.Decimal

	// Redis (optional, record mutation guard)
	RedisAddr string
	RedisPass string

	// Google Cloud (optional)
	GoogleCredentials string
	PhotoBucket       string
	PhotoCDNDomain    string
	ArchiveBucket     string
	VisionEnabled     bool
	ArchiveSchedule   string

	// Twilio (optional)
	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("APP_ENV", "development"),
		CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		DatabaseURL:   getEnv("DB_URL", ""),
		AuthJWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		MonthlyGoal:   getEnvDecimal("MONTHLY_GOAL", decimal.NewFromInt(1000000)),

		RedisAddr: getEnv("REDIS_ADDR", ""),
		RedisPass: getEnv("REDIS_PASS", ""),

		GoogleCredentials: getEnv("GOOGLE_APPLICATION_CREDENTIALS_JSON", getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")),
		PhotoBucket:       getEnv("PHOTO_GCS_BUCKET", ""),
		PhotoCDNDomain:    getEnv("PHOTO_CDN_DOMAIN", ""),
		ArchiveBucket:     getEnv("ARCHIVE_GCS_BUCKET", ""),
		VisionEnabled:     strings.ToLower(getEnv("VISION_ENABLED", "true")) == "true",
		ArchiveSchedule:   getEnv("ARCHIVE_CRON", "0 2 1 * *"),

		TwilioAccountSID:     getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:      getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppNumber: getEnv("TWILIO_WHATSAPP_NUMBER", ""),
	}
}

func (c AppConfig) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioWhatsAppNumber != ""
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil && d.IsPositive() {
			return d
		}
	}
	return fallback
}
