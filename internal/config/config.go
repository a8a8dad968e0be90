package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultJWTSecret signs profile tokens when JWT_SECRET is not set.
const DefaultJWTSecret = "your-secret-key-change-this-in-production"

type Config struct {
	Port                   string   `env:"PORT" envDefault:"8080"`
	FrontendURL            string   `env:"FRONTEND_URL" envDefault:"http://localhost:8080"`
	ExtraOrigins           []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	AllowedOrigins         []string `env:"-"`
	DatabaseURL            string   `env:"DATABASE_URL"`
	DBDriver               string   `env:"DB_DRIVER" envDefault:"pgx"`
	DBMaxOpenConns         int      `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns         int      `env:"DB_MAX_IDLE_CONNS" envDefault:"25"`
	DBConnMaxLifetimeMin   int      `env:"DB_CONN_MAX_LIFETIME_MINUTES" envDefault:"5"`
	RedisURL               string   `env:"REDIS_URL" envDefault:"localhost:6379"`
	RedisPassword          string   `env:"REDIS_PASSWORD"`
	JWTSecret              string   `env:"JWT_SECRET"`
	ProfileTTLDays         int      `env:"PROFILE_TTL_DAYS" envDefault:"365"`
	CleanupIntervalMinutes int      `env:"CLEANUP_INTERVAL_MINUTES" envDefault:"60"`
	StaticDir              string   `env:"STATIC_DIR" envDefault:"./static"`
}

// LoadDotEnv loads a .env file from the working directory or its parent.
// A missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}
}

// LoadConfig parses the environment into a Config.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = DefaultJWTSecret
	}
	if cfg.UsesDefaultSecret() {
		log.Println("[CONFIG] WARNING: JWT_SECRET is not set, profile tokens are signed with the public default secret")
	}

	switch cfg.DBDriver {
	case "pgx", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	// Frontend URL + localhost + CSV values
	cfg.AllowedOrigins = []string{
		cfg.FrontendURL,
		"http://localhost:5173", // Local development
	}
	for _, origin := range cfg.ExtraOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	// Append simple_protocol for PgBouncer compatibility (pgx driver)
	if cfg.DatabaseURL != "" && cfg.DBDriver == "pgx" {
		if u, err := url.Parse(cfg.DatabaseURL); err == nil {
			q := u.Query()
			if q.Get("default_query_exec_mode") == "" {
				q.Set("default_query_exec_mode", "simple_protocol")
				u.RawQuery = q.Encode()
				cfg.DatabaseURL = u.String()
			}
		}
	}

	return cfg, nil
}

func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

func (c *Config) ProfileTTL() time.Duration {
	return time.Duration(c.ProfileTTLDays) * 24 * time.Hour
}

func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalMinutes) * time.Minute
}

func (c *Config) DBConnMaxLifetime() time.Duration {
	return time.Duration(c.DBConnMaxLifetimeMin) * time.Minute
}

func (c *Config) IsOriginAllowed(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}
