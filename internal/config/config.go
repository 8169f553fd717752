// Package config reads process settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Get returns the trimmed value of key or def when it is unset or blank.
func Get(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func GetInt(key string, def int) int {
	if n, err := strconv.Atoi(Get(key, "")); err == nil {
		return n
	}
	return def
}

func GetFloat(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(Get(key, ""), 64); err == nil {
		return f
	}
	return def
}

// GetDuration accepts Go duration syntax ("800ms", "15s").
func GetDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(Get(key, "")); err == nil {
		return d
	}
	return def
}

func GetBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(Get(key, "")); err == nil {
		return b
	}
	return def
}

type Gateway struct {
	APIKey     string
	Mode       string
	BaseURL    string
	Timeout    time.Duration
	Attempts   int
	Backoff    time.Duration
	RatePerSec float64
	Burst      int
}

type Config struct {
	Port           string
	RateLimit      int
	LogLevel       string
	CatalogSource  string
	DataDir        string
	BrandsFile     string
	DatabaseURL    string
	RedisURL       string
	Gateway        Gateway
	CacheTTL       time.Duration
	LocalSpeedKmh  float64
	TwoOptPasses   int
	OTelEnabled    bool
	OTelEndpoint   string
	ServiceVersion string
}

// Load reads the environment. Call godotenv first if a .env file should apply.
func Load() Config {
	return Config{
		Port:          Get("PORT", "8080"),
		RateLimit:     GetInt("HTTP_RATE_LIMIT_PER_MIN", 60),
		LogLevel:      Get("LOG_LEVEL", "info"),
		CatalogSource: Get("CATALOG_SOURCE", "json"),
		DataDir:       Get("DATA_DIR", "data"),
		BrandsFile:    Get("BRANDS_FILE", ""),
		DatabaseURL:   Get("DATABASE_URL", ""),
		RedisURL:      Get("REDIS_URL", ""),
		Gateway: Gateway{
			APIKey:     Get("GOOGLE_API_KEY", Get("GOOGLE_KEY", "")),
			Mode:       Get("GATEWAY_MODE", "directions"),
			BaseURL:    Get("GATEWAY_BASE_URL", "https://maps.googleapis.com"),
			Timeout:    GetDuration("GATEWAY_TIMEOUT", 15*time.Second),
			Attempts:   GetInt("GATEWAY_ATTEMPTS", 3),
			Backoff:    GetDuration("GATEWAY_BACKOFF", 800*time.Millisecond),
			RatePerSec: GetFloat("GATEWAY_RATE_PER_SEC", 10),
			Burst:      GetInt("GATEWAY_BURST", 10),
		},
		CacheTTL:       GetDuration("DURATION_CACHE_TTL", 2*time.Minute),
		LocalSpeedKmh:  GetFloat("LOCAL_SPEED_KMH", 35),
		TwoOptPasses:   GetInt("TWO_OPT_MAX_PASSES", 1000),
		OTelEnabled:    GetBool("OTEL_ENABLED", false),
		OTelEndpoint:   Get("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		ServiceVersion: Get("SERVICE_VERSION", "dev"),
	}
}
