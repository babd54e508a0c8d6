package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	SearchBase  string
	SearchKey   string
	GeocodeBase string
	GeocodeKey  string
	ReserveBase string
	ReserveKey  string
	Workers     int
	RadiusM     int
	GeoCacheTTL time.Duration
}

func Load() Config {
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/nightspot?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		SearchBase:  env("SEARCH_BASE_URL", ""),
		SearchKey:   env("SEARCH_API_KEY", ""),
		GeocodeBase: env("GEOCODE_BASE_URL", ""),
		GeocodeKey:  env("GEOCODE_API_KEY", ""),
		ReserveBase: env("RESERVE_BASE_URL", ""),
		ReserveKey:  env("RESERVE_API_KEY", ""),
		Workers:     atoi("RESOLVE_WORKERS", 8),
		RadiusM:     atoi("SEARCH_RADIUS_METERS", 1500),
		GeoCacheTTL: time.Duration(atoi("GEOCODE_CACHE_TTL_SECONDS", 86400)) * time.Second,
	}
	if c.SearchKey == "" {
		log.Warn().Msg("SEARCH_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
