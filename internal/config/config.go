package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName           = "KantorPay"
	defaultAppEnv            = "development"
	defaultPort              = "8080"
	defaultLogLevel          = "info"
	defaultJWTSecret         = "dev-secret-change-me"
	defaultAccessTokenTTL    = 30 * time.Minute
	defaultReferenceCurrency = "PLN"
	defaultNBPBaseURL        = "https://api.nbp.pl/api"
	defaultRatesTTL          = 1800 * time.Second
	defaultRatesFetchTimeout = 10 * time.Second
	defaultSnapshotCacheTTL  = 60 * time.Second
	defaultIdempotencyTTL    = 24 * time.Hour
	defaultShutdownDelay     = 10 * time.Second

	ratesTTLSecondsEnvVar  = "RATES_TTL_SECONDS"
	ratesTTLDurEnvVar      = "RATES_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName  string
	AppEnv   string
	Port     string
	LogLevel string

	DatabaseURL string
	RedisURL    string

	JWTSecret      string
	AccessTokenTTL time.Duration

	ReferenceCurrency string
	NBPBaseURL        string
	RatesTTL          time.Duration
	RatesFetchTimeout time.Duration
	RatesServeStale   bool

	SnapshotCacheTTL time.Duration
	IdempotencyTTL   time.Duration
	ShutdownPeriod   time.Duration
}

// Load reads configuration values from the environment and populates a Config instance.
// DATABASE_URL and REDIS_URL may be left empty in development, in which case
// in-memory fallbacks are wired; outside development they are required (enforced
// at route setup).
func Load() (Config, error) {
	cfg := Config{
		AppName:           getEnv("APP_NAME", defaultAppName),
		AppEnv:            getEnv("APP_ENV", defaultAppEnv),
		Port:              getEnv("PORT", defaultPort),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		JWTSecret:         getEnv("JWT_SECRET", defaultJWTSecret),
		AccessTokenTTL:    defaultAccessTokenTTL,
		ReferenceCurrency: strings.ToUpper(getEnv("REFERENCE_CURRENCY", defaultReferenceCurrency)),
		NBPBaseURL:        getEnv("NBP_API_BASE_URL", defaultNBPBaseURL),
		RatesTTL:          defaultRatesTTL,
		RatesFetchTimeout: defaultRatesFetchTimeout,
		SnapshotCacheTTL:  defaultSnapshotCacheTTL,
		IdempotencyTTL:    defaultIdempotencyTTL,
		ShutdownPeriod:    defaultShutdownDelay,
	}

	if len(cfg.ReferenceCurrency) != 3 {
		return Config{}, fmt.Errorf("REFERENCE_CURRENCY must be a 3-letter code, got %q", cfg.ReferenceCurrency)
	}

	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ACCESS_TOKEN_TTL: %w", err)
		}
		cfg.AccessTokenTTL = d
	}

	if v := os.Getenv(ratesTTLSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", ratesTTLSecondsEnvVar, err)
		}
		cfg.RatesTTL = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(ratesTTLDurEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", ratesTTLDurEnvVar, err)
		}
		cfg.RatesTTL = d
	}

	if v := os.Getenv("RATES_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RATES_FETCH_TIMEOUT: %w", err)
		}
		cfg.RatesFetchTimeout = d
	}

	if v := os.Getenv("RATES_SERVE_STALE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RATES_SERVE_STALE: %w", err)
		}
		cfg.RatesServeStale = b
	}

	if v := os.Getenv("SNAPSHOT_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SNAPSHOT_CACHE_TTL: %w", err)
		}
		cfg.SnapshotCacheTTL = d
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the app runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
