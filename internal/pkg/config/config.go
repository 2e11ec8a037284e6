package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
	Issuer         string
	Audience       string
}

type SessionConfig struct {
	// ExpiryWindow bounds how long a saved session stays valid.
	// Zero disables expiry; sessions then persist until logout.
	ExpiryWindow time.Duration
}

type StripeConfig struct {
	APIKey string
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
	Redis    RedisConfig
}

type Config struct {
	Repositories RepositoriesConfig
	JWT          JWTConfig
	Session      SessionConfig
	Stripe       StripeConfig
	ServerPort   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "autornexus"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
			Redis: RedisConfig{
				Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvIntOrDefault("REDIS_DB", 0),
			},
		},
		JWT: JWTConfig{
			SecretKey:      os.Getenv("JWT_SECRET_KEY"),
			AccessTokenTTL: getEnvDurationOrDefault("JWT_ACCESS_TTL", 24*time.Hour),
			Issuer:         getEnvOrDefault("JWT_ISSUER", "AutorNexus"),
			Audience:       getEnvOrDefault("JWT_AUDIENCE", "autornexus-app"),
		},
		Session: SessionConfig{
			ExpiryWindow: getEnvDurationOrDefault("SESSION_EXPIRY_WINDOW", 0),
		},
		Stripe: StripeConfig{
			APIKey: os.Getenv("STRIPE_API_KEY"),
		},
		ServerPort: getEnvOrDefault("SERVER_PORT", "8000"),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}
	if cfg.JWT.SecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
