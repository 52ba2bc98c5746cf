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

	MongoURI      string
	MongoDatabase string

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	ReconcileSchedule string
	RateLimitRPS      float64
	RateLimitBurst    int

	APIURL          string
	AdminPassphrase string
	StateFile       string
	SeedWorkers     int
}

// Load reads the process environment, after merging a .env file if present.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    httpAddr(),
		MetricsAddr: env("METRICS_ADDR", ":9100"),

		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: env("MONGODB_DATABASE", "estate_market"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		ReconcileSchedule: envOr("RECONCILE_SCHEDULE", "@every 15m"),
		RateLimitRPS:      atof("RATE_LIMIT_RPS", 5),
		RateLimitBurst:    atoi("RATE_LIMIT_BURST", 10),

		APIURL:          env("API_URL", "http://localhost:5000/api"),
		AdminPassphrase: os.Getenv("ADMIN_PASSPHRASE"),
		StateFile:       env("STATE_FILE", DefaultStateFile()),
		SeedWorkers:     atoi("SEED_WORKERS", 4),
	}
	return c
}

// httpAddr honours HTTP_ADDR, then a bare PORT, then :5000.
func httpAddr() string {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		return v
	}
	if p := os.Getenv("PORT"); p != "" {
		return ":" + p
	}
	return ":5000"
}

func DefaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".estate-state.json"
	}
	return dir + "/estate_market/state.json"
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envOr is env, except an explicitly empty value is kept.
func envOr(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func atof(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
