package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Storage
	DatabasePath string
	OutputDir    string
	TemplatePath string

	// Auth
	JWTSecret     string
	TokenDays     int
	EncryptionKey []byte

	// DFBnet
	DFBnetBaseURL string

	// Scheduler
	ScheduleHour      int
	MaxConcurrentRuns int
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8000"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabasePath: getEnv("DATABASE_PATH", "app.db"),
		OutputDir:    getEnv("OUTPUT_DIR", "output"),
		TemplatePath: getEnv("TEMPLATE_PATH", "templates/spesenabrechnung.docx"),

		JWTSecret: getEnv("JWT_SECRET_KEY", ""),

		DFBnetBaseURL: getEnv("DFBNET_BASE_URL", "https://www.dfbnet.org"),
	}

	var err error
	if cfg.TokenDays, err = getEnvInt("JWT_EXPIRATION_DAYS", 90); err != nil {
		return nil, err
	}
	if cfg.ScheduleHour, err = getEnvInt("SCHEDULE_HOUR", 3); err != nil {
		return nil, err
	}
	if cfg.MaxConcurrentRuns, err = getEnvInt("MAX_CONCURRENT_RUNS", 4); err != nil {
		return nil, err
	}

	if key := os.Getenv("ENCRYPTION_KEY"); key != "" {
		decoded, err := base64.StdEncoding.DecodeString(key)
		if err != nil {
			return nil, fmt.Errorf("ENCRYPTION_KEY is not valid base64: %w", err)
		}
		cfg.EncryptionKey = decoded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if len(c.EncryptionKey) != 32 {
		return fmt.Errorf("ENCRYPTION_KEY must be 32 bytes base64-encoded, got %d bytes", len(c.EncryptionKey))
	}
	if c.ScheduleHour < 0 || c.ScheduleHour > 23 {
		return fmt.Errorf("SCHEDULE_HOUR must be between 0 and 23")
	}
	if c.MaxConcurrentRuns < 1 {
		return fmt.Errorf("MAX_CONCURRENT_RUNS must be at least 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
