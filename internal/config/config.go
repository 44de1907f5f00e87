package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port          string
	CatalogURL    string
	WhatsAppPhone string
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MigrationsPath  string
}

type Config struct {
	App      AppConfig
	Postgres PostgresConfig
}

// NewConfig reads configuration from the environment, loading a .env file
// first when one is present in the working directory.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.App.Port = envOrDefault("APP_PORT", "5000")
	cfg.App.CatalogURL = envOrDefault("CATALOG_URL", "http://localhost:5000/api")
	cfg.App.WhatsAppPhone = envOrDefault("WHATSAPP_PHONE", "558182047692")

	required := map[string]*string{
		"DB_HOST":     &cfg.Postgres.Host,
		"DB_PORT":     &cfg.Postgres.Port,
		"DB_USER":     &cfg.Postgres.User,
		"DB_PASSWORD": &cfg.Postgres.Password,
		"DB_NAME":     &cfg.Postgres.DBName,
	}
	for key, dst := range required {
		value := os.Getenv(key)
		if value == "" {
			return nil, fmt.Errorf("config: %s is required", key)
		}
		*dst = value
	}

	cfg.Postgres.SSLMode = envOrDefault("DB_SSLMODE", "disable")
	cfg.Postgres.MigrationsPath = envOrDefault("DB_MIGRATIONS_PATH", "migrations")

	maxConns, err := envIntOrDefault("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	cfg.Postgres.MaxConns = int32(maxConns)

	minConns, err := envIntOrDefault("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, err
	}
	cfg.Postgres.MinConns = int32(minConns)

	cfg.Postgres.MaxConnLifetime = 30 * time.Minute

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return value, nil
}
