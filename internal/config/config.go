package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	RequestTimeout     time.Duration
	DatabaseURL        string
	DBMaxConns         int32
	DBMinConns         int32
	CORSOrigins        []string
	RateLimitRPM       int
	IdentityHeader     string
	UserServiceURL     string
	S3Bucket           string
	S3Region           string
	S3Endpoint         string
	S3AccessKeyID      string
	S3SecretAccessKey  string
	PutURLTTL          time.Duration
	GetURLTTL          time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		ServerReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 30*time.Second),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:         int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:         int32(getInt("DB_MIN_CONNS", 2)),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:       getInt("RATE_LIMIT_RPM", 100),
		IdentityHeader:     getEnv("IDENTITY_HEADER", "User-National-Id"),
		UserServiceURL:     strings.TrimSpace(os.Getenv("USER_SERVICE_URL")),
		S3Bucket:           strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:           getEnv("S3_REGION", "eu-west-1"),
		S3Endpoint:         strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		S3AccessKeyID:      strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
		S3SecretAccessKey:  strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
		PutURLTTL:          getDuration("PUT_URL_TTL", 10*time.Minute),
		GetURLTTL:          getDuration("GET_URL_TTL", time.Minute),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.UserServiceURL == "" {
		return fmt.Errorf("USER_SERVICE_URL is required")
	}

	if c.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if strings.TrimSpace(c.IdentityHeader) == "" {
		return fmt.Errorf("IDENTITY_HEADER cannot be empty")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
