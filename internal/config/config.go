package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL   string
	LLMModelName string
	LLMAPIKey    string
	DBPath       string
	APIPort      string
	LogLevel     slog.Level
	LogFormat    string

	// Retrieval pipeline tunables.
	MaxChunkSize   int
	MaxChunks      int
	TopK           int
	ContextBudget  int
	MinRelevance   float64
	KeywordWeight  float64
	EntityWeight   float64
	PageMatchBonus float64
	MaxPageNumber  int
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates numeric tunables.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:   getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName: getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:    getEnv("LLM_API_KEY", "dummy-key"),
		DBPath:       getEnv("DB_PATH", "./data/docchat.db"),
		APIPort:      getEnv("API_PORT", "9000"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
	}

	switch getEnv("LOG_LEVEL", "info") {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	if cfg.MaxChunkSize, err = getEnvInt("MAX_CHUNK_SIZE", 500); err != nil {
		return nil, err
	}
	if cfg.MaxChunks, err = getEnvInt("MAX_CHUNKS", 500); err != nil {
		return nil, err
	}
	if cfg.TopK, err = getEnvInt("TOP_K", 4); err != nil {
		return nil, err
	}
	if cfg.ContextBudget, err = getEnvInt("CONTEXT_BUDGET", 2000); err != nil {
		return nil, err
	}
	if cfg.MaxPageNumber, err = getEnvInt("MAX_PAGE_NUMBER", 10000); err != nil {
		return nil, err
	}
	if cfg.MinRelevance, err = getEnvFloat("MIN_RELEVANCE", 0.05); err != nil {
		return nil, err
	}
	if cfg.KeywordWeight, err = getEnvFloat("KEYWORD_WEIGHT", 1.0); err != nil {
		return nil, err
	}
	if cfg.EntityWeight, err = getEnvFloat("ENTITY_WEIGHT", 2.0); err != nil {
		return nil, err
	}
	if cfg.PageMatchBonus, err = getEnvFloat("PAGE_MATCH_BONUS", 5.0); err != nil {
		return nil, err
	}

	// The documented priority (page > entity > keyword) is the contract;
	// weights that invert it are a misconfiguration.
	if cfg.EntityWeight < cfg.KeywordWeight {
		return nil, fmt.Errorf("ENTITY_WEIGHT must be >= KEYWORD_WEIGHT")
	}
	if cfg.PageMatchBonus < cfg.EntityWeight {
		return nil, fmt.Errorf("PAGE_MATCH_BONUS must be >= ENTITY_WEIGHT")
	}

	// Create ./data directory if it doesn't exist (for the DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets a positive integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return n, nil
}

// getEnvFloat gets a positive float environment variable or returns a default value.
func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return f, nil
}
