// Package config builds the process-wide configuration from the environment.
// Everything that varies by deployment (database, storage, mail credentials,
// upload limits, allowed origins) lives here; nothing is hard-coded elsewhere.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const defaultMaxUploadSize = 10 * 1024 * 1024 // 10MB per file

// SMTPConfig holds mail provider credentials. An empty Host disables real
// sending; the server falls back to a log-only sender for development.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// Enabled reports whether a real SMTP transport is configured
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// StorageConfig selects and configures the artifact storage backend
type StorageConfig struct {
	Type         string // "local" or "s3"
	LocalPath    string
	PublicPath   string // URL prefix the upload directory is served under
	S3Bucket     string
	S3Region     string
	S3BaseURL    string // external URL prefix for S3-hosted artifacts
	AWSAccessKey string
	AWSSecretKey string
}

// Config is the explicit configuration object constructed once at startup
// and passed into each component.
type Config struct {
	Port           string
	DatabaseURL    string
	BaseURL        string // public base URL used in email links
	JWTSecret      string
	MaxUploadSize  int64
	AllowedOrigins []string
	Storage        StorageConfig
	SMTP           SMTPConfig
}

// Load reads configuration from environment variables. Required settings
// without a safe default (DATABASE_URL, JWT_SECRET) produce an error rather
// than a baked-in fallback credential.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		BaseURL:       getEnv("BASE_URL", "http://localhost:8080"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		MaxUploadSize: defaultMaxUploadSize,
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}

	if raw := os.Getenv("MAX_UPLOAD_SIZE"); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE: %q", raw)
		}
		cfg.MaxUploadSize = size
	}

	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	cfg.Storage = StorageConfig{
		Type:         getEnv("STORAGE_TYPE", "local"),
		LocalPath:    getEnv("UPLOAD_DIR", "./uploads"),
		PublicPath:   getEnv("UPLOAD_PUBLIC_PATH", "/uploads"),
		S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
		S3Region:     getEnv("AWS_REGION", "us-east-1"),
		S3BaseURL:    os.Getenv("S3_BASE_URL"),
		AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}
	if cfg.Storage.Type == "s3" && cfg.Storage.S3Bucket == "" {
		return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
	}

	cfg.SMTP = SMTPConfig{
		Host:        os.Getenv("SMTP_HOST"),
		Port:        587,
		Username:    os.Getenv("SMTP_USERNAME"),
		Password:    os.Getenv("SMTP_PASSWORD"),
		FromAddress: os.Getenv("EMAIL_FROM"),
		FromName:    getEnv("EMAIL_FROM_NAME", "Jumpstart Your Career"),
	}
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT: %q", raw)
		}
		cfg.SMTP.Port = port
	}
	if cfg.SMTP.Enabled() && cfg.SMTP.FromAddress == "" {
		return nil, errors.New("EMAIL_FROM environment variable is required when SMTP_HOST is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
