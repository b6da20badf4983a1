package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Source SourceConfig
	Batch  BatchConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	Version         string
	StrictValidate  bool
	ShutdownTimeout time.Duration
}

// SourceConfig holds text-acquisition configuration
type SourceConfig struct {
	Backend   string // "pdftotext" | "fitz"
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	MaxPages  int    // 0 = no limit (fitz backend only)
}

// BatchConfig holds worker-queue configuration
type BatchConfig struct {
	Workers     int
	QueueSize   int
	ItemTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("EXTRACTOR_ADDR", ":8000"),
			Version:         getEnv("EXTRACTOR_VERSION", "1.0.0"),
			StrictValidate:  getEnvAsBool("EXTRACTOR_STRICT_VALIDATE", false),
			ShutdownTimeout: getEnvAsDuration("EXTRACTOR_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Source: SourceConfig{
			Backend:   getEnv("EXTRACTOR_SOURCE_BACKEND", "pdftotext"),
			Pdftotext: getEnv("EXTRACTOR_PDFTOTEXT", ""),
			MaxPages:  getEnvAsInt("EXTRACTOR_MAX_PAGES", 0),
		},
		Batch: BatchConfig{
			Workers:     getEnvAsInt("EXTRACTOR_BATCH_WORKERS", 4),
			QueueSize:   getEnvAsInt("EXTRACTOR_BATCH_QUEUE", 256),
			ItemTimeout: getEnvAsDuration("EXTRACTOR_BATCH_TIMEOUT", 30*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "EXTRACTOR_ADDR is required", ErrInvalidInput)
	}
	switch c.Source.Backend {
	case "pdftotext", "fitz":
	default:
		return NewAppError("CONFIG_ERROR", "EXTRACTOR_SOURCE_BACKEND must be pdftotext or fitz", ErrInvalidInput)
	}
	if c.Batch.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "EXTRACTOR_BATCH_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
