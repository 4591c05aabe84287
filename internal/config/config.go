package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPgx    = "pgx"
	DriverPq     = "postgres"
	DriverSQLite = "sqlite"
)

type Config struct {
	Port string
	Env  string // "dev" or "prod"

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string
	DBLogLevel string

	JWTSecret    string
	TokenTTL     time.Duration
	PostsPerPage int
	CORSOrigins  []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		Env:        getEnv("APP_ENV", "dev"),
		DBDriver:   getEnv("DB_DRIVER", DriverPgx),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "blogicum"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "blogicum.db"),
		DBLogLevel: getEnv("DB_LOG_LEVEL", "warn"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
	}

	switch cfg.DBDriver {
	case DriverPgx, DriverPq, DriverSQLite:
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "72h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	perPage, err := strconv.Atoi(getEnv("POSTS_PER_PAGE", "10"))
	if err != nil || perPage < 1 {
		return nil, fmt.Errorf("invalid POSTS_PER_PAGE %q", os.Getenv("POSTS_PER_PAGE"))
	}
	cfg.PostsPerPage = perPage

	for _, origin := range strings.Split(getEnv("CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if cfg.Env == "prod" {
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("prod: JWT_SECRET is required")
		}
	} else if cfg.JWTSecret == "" {
		// weak dev secret so the server still boots locally
		cfg.JWTSecret = "dev-secret-do-not-use-in-prod"
	}

	return cfg, nil
}

// PostgresDSN builds a key/value connection string understood by both pgx and lib/pq.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
