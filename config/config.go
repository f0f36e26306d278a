package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting read from the environment.
type Config struct {
	Port           string
	Env            string
	MongoURI       string
	MongoDB        string
	RedisURL       string
	RedisPassword  string
	JWTSecret      []byte
	PlacesAPIKey   string
	PlacesBaseURL  string
	PhotoDir       string
	ShareBaseURL   string
	CacheTTL       time.Duration
	WarmCities     []string
	WarmSchedule   string
	RatePerSecond  float64
	RateBurst      int
	AllowedOrigins []string
}

func (c Config) IsDev() bool {
	return c.Env == "dev"
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:           get("PORT", "4000"),
		Env:            get("APP_ENV", "production"),
		MongoURI:       get("MONGO_URI", ""),
		MongoDB:        get("MONGO_DB", "wayfarer"),
		RedisURL:       get("REDIS_URL", ""),
		RedisPassword:  getenv("REDIS_PASSWORD"),
		JWTSecret:      []byte(getenv("JWT_SECRET")),
		PlacesAPIKey:   get("PLACES_API_KEY", ""),
		PlacesBaseURL:  get("PLACES_BASE_URL", ""),
		PhotoDir:       get("PHOTO_DIR", "./static/photos"),
		ShareBaseURL:   strings.TrimRight(get("SHARE_BASE_URL", "http://localhost:5173"), "/"),
		WarmCities:     splitList(getenv("WARM_CITIES")),
		WarmSchedule:   get("WARM_SCHEDULE", "0 4 * * *"),
		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS")),
	}

	var err error
	if cfg.CacheTTL, err = time.ParseDuration(get("CACHE_TTL", "6h")); err != nil {
		return Config{}, fmt.Errorf("CACHE_TTL: %w", err)
	}
	if cfg.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be positive")
	}
	if cfg.RatePerSecond, err = strconv.ParseFloat(get("RATE_PER_SECOND", "5"), 64); err != nil || cfg.RatePerSecond <= 0 {
		return Config{}, fmt.Errorf("RATE_PER_SECOND must be a positive number")
	}
	if cfg.RateBurst, err = strconv.Atoi(get("RATE_BURST", "10")); err != nil || cfg.RateBurst < 1 {
		return Config{}, fmt.Errorf("RATE_BURST must be a positive integer")
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:5173"}
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
