package config

import (
	"strings"
	"testing"
	"time"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(envOf(map[string]string{
		"DATABASE_URL": "postgres://localhost/quizbank",
	}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Fatalf("port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("driver = %q, want postgres", cfg.DBDriver)
	}
	if cfg.CategoryCacheTTL != DefaultCategoryCacheTTL {
		t.Fatalf("cache ttl = %v, want %v", cfg.CategoryCacheTTL, DefaultCategoryCacheTTL)
	}
	if !cfg.IsDevelopment() || cfg.CSRFSecret == "" {
		t.Fatalf("development config without CSRF secret: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("cors origins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.Addr() != ":3000" {
		t.Fatalf("addr = %q, want :3000", cfg.Addr())
	}
}

func TestParseValues(t *testing.T) {
	cfg, err := Parse(envOf(map[string]string{
		"ENVIRONMENT":        "production",
		"PORT":               "8080",
		"DATABASE_URL":       "quiz.db",
		"DB_DRIVER":          "sqlite3",
		"REDIS_ADDR":         "localhost:6379",
		"CATEGORY_CACHE_TTL": "30s",
		"CSRF_SECRET":        "s3cret",
		"CORS_ORIGINS":       "https://a.example, https://b.example,",
	}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != 8080 || cfg.DBDriver != "sqlite3" || cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.CategoryCacheTTL != 30*time.Second {
		t.Fatalf("cache ttl = %v, want 30s", cfg.CategoryCacheTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("cors origins = %v", cfg.CORSOrigins)
	}
}

func TestParseReportsEveryProblem(t *testing.T) {
	_, err := Parse(envOf(map[string]string{
		"ENVIRONMENT":        "production",
		"PORT":               "abc",
		"DB_DRIVER":          "mysql",
		"CATEGORY_CACHE_TTL": "soon",
	}))
	if err == nil {
		t.Fatalf("expected configuration error")
	}
	for _, want := range []string{"DATABASE_URL", "DB_DRIVER", "PORT", "CATEGORY_CACHE_TTL", "CSRF_SECRET"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err.Error(), want)
		}
	}
}
