package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chessclub/arena/models"
	"github.com/joho/godotenv"
)

// SheetSource points at the published CSV exports for one category.
// RoundsURL may be empty for categories that only publish standings.
type SheetSource struct {
	Category     models.Category
	StandingsURL string
	RoundsURL    string
}

type Config struct {
	DatabaseURL  string
	RedisURL     string // optional; in-memory cache is used when empty
	JWTSecretKey string
	ServerPort   int

	// Comma-separated fallback allow-list, checked when the admins table
	// has no row for the email.
	AdminEmails []string

	Sources       []SheetSource
	SheetCacheTTL time.Duration
	SyncInterval  time.Duration // 0 disables the background sheet sync
}

// Load reads configuration from environment variables, optionally seeded
// from a local .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	cacheTTL, err := durationEnv("SHEET_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	syncInterval, err := durationEnv("SYNC_INTERVAL", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:   dbURL,
		RedisURL:      os.Getenv("REDIS_URL"),
		JWTSecretKey:  jwtKey,
		ServerPort:    port,
		AdminEmails:   splitList(os.Getenv("ADMIN_EMAILS")),
		Sources:       loadSources(),
		SheetCacheTTL: cacheTTL,
		SyncInterval:  syncInterval,
	}

	return cfg, nil
}

// Source returns the sheet source for a category, if one is configured.
func (c *Config) Source(category models.Category) (SheetSource, bool) {
	for _, s := range c.Sources {
		if s.Category == category {
			return s, true
		}
	}
	return SheetSource{}, false
}

func loadSources() []SheetSource {
	categories := []models.Category{
		models.CategoryAdults,
		models.CategoryJuniors,
		models.CategoryKids,
	}

	sources := make([]SheetSource, 0, len(categories))
	for _, cat := range categories {
		prefix := "SHEET_" + strings.ToUpper(string(cat))
		standings := os.Getenv(prefix + "_STANDINGS_URL")
		if standings == "" {
			continue
		}
		sources = append(sources, SheetSource{
			Category:     cat,
			StandingsURL: standings,
			RoundsURL:    os.Getenv(prefix + "_ROUNDS_URL"),
		})
	}
	return sources
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", key, d)
	}
	return d, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
