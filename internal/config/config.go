package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	// Auth configuration
	JWTSecret string
	TokenTTL  time.Duration
	// LLM configuration
	AnthropicAPIKey string
	DefaultModel    string
	LLMTimeout      time.Duration
	// MaxConcurrentGenerations bounds the number of section-generation calls
	// in flight during website assembly.
	MaxConcurrentGenerations int
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		// Auth configuration
		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getDuration("TOKEN_TTL", 7*24*time.Hour),
		// LLM configuration
		AnthropicAPIKey:          getEnv("ANTHROPIC_API_KEY", ""),
		DefaultModel:             getEnv("DEFAULT_MODEL", "claude-haiku-4-5-20251001"),
		LLMTimeout:               getDuration("LLM_TIMEOUT", 90*time.Second),
		MaxConcurrentGenerations: getInt("MAX_CONCURRENT_GENERATIONS", 8),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
