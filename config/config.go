package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	AI       AIConfig
	Worker   WorkerConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	DSN      string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type AIConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	RequestTimeout time.Duration
	DailyQuota     int
	QuotaWindow    time.Duration
	// Outbound requests per second across all users.
	ProviderRPS float64
}

type WorkerConfig struct {
	StaleProjectDays int
	LogRetentionDays int
}

type AppConfig struct {
	Environment string
	Version     string
	// Debounce delay applied to draft auto-saves.
	AutosaveDelay time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: []string{getEnv("CORS_ORIGIN", "http://localhost:5173")},
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvAsDuration("JWT_TTL", 24*time.Hour),
		},
		AI: AIConfig{
			BaseURL:        getEnv("AI_BASE_URL", "https://api.openai.com"),
			APIKey:         getEnv("AI_API_KEY", ""),
			Model:          getEnv("AI_MODEL", "gpt-4o-mini"),
			RequestTimeout: getEnvAsDuration("AI_TIMEOUT", 90*time.Second),
			DailyQuota:     getEnvAsInt("AI_DAILY_QUOTA", 50),
			QuotaWindow:    getEnvAsDuration("AI_QUOTA_WINDOW", 24*time.Hour),
			ProviderRPS:    getEnvAsFloat("AI_PROVIDER_RPS", 2),
		},
		Worker: WorkerConfig{
			StaleProjectDays: getEnvAsInt("STALE_PROJECT_DAYS", 90),
			LogRetentionDays: getEnvAsInt("LOG_RETENTION_DAYS", 180),
		},
		App: AppConfig{
			Environment:   getEnv("APP_ENV", "development"),
			Version:       getEnv("APP_VERSION", "1.0.0"),
			AutosaveDelay: getEnvAsDuration("AUTOSAVE_DELAY", 2*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
