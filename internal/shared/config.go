package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	// Secrets. ServiceAccountRaw may be a raw JSON object, base64-encoded
	// JSON, or a path in ServiceAccountFile; see shared.DecodeServiceAccount.
	GoogleAPIKey       string
	ServiceAccountRaw  string
	ServiceAccountFile string

	PlacesBase   string
	BusinessBase string
	RequestRPS   int

	RedisAddr string
	RedisPass string
	RedisDB   int
	CacheTTL  time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:             env("APP_ENV", "prod"),
		HTTPAddr:           env("HTTP_ADDR", ":8080"),
		MetricsAddr:        env("METRICS_ADDR", ""),
		GoogleAPIKey:       env("GOOGLE_API_KEY", ""),
		ServiceAccountRaw:  env("BUSINESS_SERVICE_ACCOUNT", ""),
		ServiceAccountFile: env("BUSINESS_SERVICE_ACCOUNT_FILE", ""),
		PlacesBase:         env("PLACES_BASE_URL", "https://maps.googleapis.com"),
		BusinessBase:       env("BUSINESS_BASE_URL", "https://mybusiness.googleapis.com/v4"),
		RequestRPS:         atoi("GOOGLE_RPS", 5),
		RedisAddr:          env("REDIS_ADDR", ""),
		RedisPass:          env("REDIS_PASSWORD", ""),
		RedisDB:            atoi("REDIS_DB", 0),
		CacheTTL:           time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.GoogleAPIKey == "" {
		log.Warn().Msg("GOOGLE_API_KEY is empty; key-based fetch disabled")
	}
	if c.ServiceAccountRaw == "" && c.ServiceAccountFile == "" {
		log.Warn().Msg("BUSINESS_SERVICE_ACCOUNT is empty; posting replies disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
