package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort             = 3000
	DefaultCategoryCacheTTL = 5 * time.Minute
	developmentCSRFSecret   = "development-csrf-secret"
)

type Config struct {
	Environment      string
	Port             int
	DatabaseURL      string
	DBDriver         string
	RedisAddr        string
	CategoryCacheTTL time.Duration
	CSRFSecret       string
	CORSOrigins      []string
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	return Parse(os.Getenv)
}

// Parse builds a Config from getenv. Every problem is reported in the returned error.
func Parse(getenv func(string) string) (*Config, error) {
	get := func(key, defaultValue string) string {
		if value := strings.TrimSpace(getenv(key)); value != "" {
			return value
		}
		return defaultValue
	}

	var problems []error
	cfg := &Config{
		Environment: get("ENVIRONMENT", "development"),
		DatabaseURL: get("DATABASE_URL", ""),
		DBDriver:    get("DB_DRIVER", "postgres"),
		RedisAddr:   get("REDIS_ADDR", ""),
		CSRFSecret:  get("CSRF_SECRET", ""),
		CORSOrigins: splitList(get("CORS_ORIGINS", "*")),
	}

	if cfg.DatabaseURL == "" {
		problems = append(problems, errors.New("DATABASE_URL must be defined"))
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite3":
	default:
		problems = append(problems, fmt.Errorf("DB_DRIVER must be postgres or sqlite3, got %q", cfg.DBDriver))
	}

	cfg.Port = DefaultPort
	if port := get("PORT", ""); port != "" {
		parsed, err := strconv.Atoi(port)
		if err != nil || parsed <= 0 || parsed > 65535 {
			problems = append(problems, fmt.Errorf("PORT must be a number between 1 and 65535, got %q", port))
		} else {
			cfg.Port = parsed
		}
	} else {
		log.Printf("PORT not defined, using default port %d", DefaultPort)
	}

	cfg.CategoryCacheTTL = DefaultCategoryCacheTTL
	if ttl := get("CATEGORY_CACHE_TTL", ""); ttl != "" {
		parsed, err := time.ParseDuration(ttl)
		if err != nil || parsed <= 0 {
			problems = append(problems, fmt.Errorf("CATEGORY_CACHE_TTL must be a positive duration, got %q", ttl))
		} else {
			cfg.CategoryCacheTTL = parsed
		}
	}

	if cfg.CSRFSecret == "" {
		if cfg.IsDevelopment() {
			cfg.CSRFSecret = developmentCSRFSecret
		} else {
			problems = append(problems, errors.New("CSRF_SECRET must be defined outside development"))
		}
	}

	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
