package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	JWTSecret     string
	EncryptionKey string

	DatabaseHost     string
	DatabasePort     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	DatabaseSSLMode  string

	GoogleClientID     string
	GoogleClientSecret string

	MessagingBaseURL       string
	MessagingPhoneNumberID string

	BankingBaseURL  string
	BankingClientID string
	BankingSecret   string

	SyncBatchSize     int
	SyncRetryAttempts int
	SyncRetryBaseWait time.Duration
	SyncStallTimeout  time.Duration
	AutoSyncSpec      string // cron spec, empty disables auto-sync
	DefaultLookback   time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	stallTimeout := 10 * time.Minute
	if v := os.Getenv("SYNC_STALL_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			stallTimeout = parsed
		}
	}

	lookback := 365 * 24 * time.Hour
	if v := os.Getenv("SYNC_DEFAULT_LOOKBACK"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			lookback = parsed
		}
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		EncryptionKey: getEnv("ENCRYPTION_KEY", "dev-only-encryption-key"),

		DatabaseHost:     getEnv("DB_HOST", "localhost"),
		DatabasePort:     getEnv("DB_PORT", "5432"),
		DatabaseUser:     getEnv("DB_USER", "postgres"),
		DatabasePassword: getEnv("DB_PASSWORD", "postgres"),
		DatabaseName:     getEnv("DB_NAME", "aura"),
		DatabaseSSLMode:  getEnv("DB_SSLMODE", "disable"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),

		MessagingBaseURL:       getEnv("MESSAGING_BASE_URL", "https://graph.facebook.com/v18.0"),
		MessagingPhoneNumberID: getEnv("MESSAGING_PHONE_NUMBER_ID", ""),

		BankingBaseURL:  getEnv("BANKING_BASE_URL", "https://sandbox.plaid.com"),
		BankingClientID: getEnv("BANKING_CLIENT_ID", ""),
		BankingSecret:   getEnv("BANKING_SECRET", ""),

		SyncBatchSize:     getEnvInt("SYNC_BATCH_SIZE", 100),
		SyncRetryAttempts: getEnvInt("SYNC_RETRY_ATTEMPTS", 3),
		SyncRetryBaseWait: time.Second,
		SyncStallTimeout:  stallTimeout,
		AutoSyncSpec:      getEnv("AUTO_SYNC_SPEC", "@every 6h"),
		DefaultLookback:   lookback,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
