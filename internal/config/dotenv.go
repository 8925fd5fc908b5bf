package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port              string
	APIBaseURL        string
	APITimeoutSeconds int
	ScoreboardRanking int
	DiscardStale      bool
	DashboardPath     string
	LogLevel          string
	LogDev            bool
}

func Default() Config {
	return Config{
		Port:          "8080",
		APIBaseURL:    "http://localhost:80",
		DiscardStale:  true,
		DashboardPath: "/dashboard.html",
		LogLevel:      "info",
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	if raw := os.Getenv("API_BASE_URL"); raw != "" {
		cfg.APIBaseURL = raw
	}
	if raw := os.Getenv("API_TIMEOUT_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.APITimeoutSeconds = value
		}
	}
	if raw := os.Getenv("SCOREBOARD_RANKING"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.ScoreboardRanking = value
		}
	}
	if raw := os.Getenv("DISCARD_STALE"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.DiscardStale = value
		}
	}
	if raw := os.Getenv("DASHBOARD_PATH"); raw != "" && strings.HasPrefix(raw, "/") {
		cfg.DashboardPath = raw
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = strings.ToLower(raw)
	}
	if raw := os.Getenv("LOG_DEV"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.LogDev = value
		}
	}
	return cfg
}

// APITimeout is zero when backend requests are unbounded.
func (c Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutSeconds) * time.Second
}

func (c Config) Addr() string {
	return ":" + c.Port
}
