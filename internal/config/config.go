package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Addr     string
	DBDSN    string
	LogLevel string

	CookieSecret         string
	SessionTTL           time.Duration
	OperatorPasscodeHash string

	GeminiAPIKey string
	GeminiModel  string

	SeriesTarget int
}

// Load reads configuration from the process environment. A .env file in the
// working directory is merged in first; missing files are fine (production
// sets real env vars).
func Load() (Config, error) {
	_ = godotenv.Load()
	return LoadFromEnv(os.Getenv)
}

func LoadFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:                  getenv("APP_ENV"),
		Addr:                 getenv("APP_ADDR"),
		DBDSN:                getenv("APP_DB_DSN"),
		LogLevel:             getenv("APP_LOG_LEVEL"),
		CookieSecret:         getenv("APP_COOKIE_SECRET"),
		OperatorPasscodeHash: getenv("APP_OPERATOR_PASSCODE_HASH"),
		GeminiAPIKey:         getenv("APP_GEMINI_API_KEY"),
		GeminiModel:          getenv("APP_GEMINI_MODEL"),
	}

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-3-flash-preview"
	}

	switch cfg.Env {
	case "dev", "prod", "test":
	default:
		return Config{}, errors.New("APP_ENV: must be one of dev, test, prod")
	}

	ttlRaw := getenv("APP_SESSION_TTL")
	if ttlRaw == "" {
		cfg.SessionTTL = 12 * time.Hour
	} else {
		ttl, err := time.ParseDuration(ttlRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_SESSION_TTL: %w", err)
		}
		if ttl <= 0 {
			return Config{}, errors.New("APP_SESSION_TTL: must be > 0")
		}
		cfg.SessionTTL = ttl
	}

	targetRaw := getenv("APP_SERIES_TARGET")
	if targetRaw == "" {
		cfg.SeriesTarget = 10
	} else {
		target, err := strconv.Atoi(targetRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_SERIES_TARGET: %w", err)
		}
		if target <= 0 {
			return Config{}, errors.New("APP_SERIES_TARGET: must be > 0")
		}
		cfg.SeriesTarget = target
	}

	if cfg.IsProd() {
		if cfg.DBDSN == "" {
			return Config{}, errors.New("APP_DB_DSN: required in prod")
		}
		if len(cfg.CookieSecret) < 32 {
			return Config{}, errors.New("APP_COOKIE_SECRET: must be at least 32 bytes in prod")
		}
		if cfg.OperatorPasscodeHash == "" {
			return Config{}, errors.New("APP_OPERATOR_PASSCODE_HASH: required in prod")
		}
	}

	return cfg, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }

// CookieSecure reports whether session cookies should carry the Secure
// flag. Dev runs over plain http on localhost.
func (c Config) CookieSecure() bool { return c.IsProd() }
