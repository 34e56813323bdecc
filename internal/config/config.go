// Package config reads the planner's settings from the environment. The
// one setting that changes behavior is the API base: when present, items
// sync to the remote endpoint instead of the local database. The choice
// is made once at startup.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config for the planner TUI.
type Config struct {
	// APIBase selects remote mode when non-empty, e.g. "https://sync.example.com".
	APIBase string
	// DataDir overrides the default config-dir location of the local database.
	DataDir string
	// User preselects the session username, skipping the prompt.
	User string
	// Debug enables verbose logging to stderr as well as the log file.
	Debug bool
}

func Load() Config {
	return Config{
		APIBase: getEnv("PLANNER_API_BASE", ""),
		DataDir: getEnv("PLANNER_DATA_DIR", ""),
		User:    getEnv("PLANNER_USER", ""),
		Debug:   getEnvBool("PLANNER_DEBUG", false),
	}
}

// SyncConfig for the syncd server.
type SyncConfig struct {
	Port      string
	DBPath    string
	JWTSecret string
	TokenTTL  time.Duration
}

func LoadSync() SyncConfig {
	return SyncConfig{
		Port:      getEnv("SYNCD_PORT", "8080"),
		DBPath:    getEnv("SYNCD_DB_PATH", "./data/syncd.db"),
		JWTSecret: getEnv("SYNCD_JWT_SECRET", "change-this-secret"),
		TokenTTL:  time.Duration(getEnvInt("SYNCD_TOKEN_TTL_HOURS", 72)) * time.Hour,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
