package config

import (
	"os"
	"time"
)

// Config holds the runtime settings for the store server and the stations.
// Every field has an env override with a local-dev fallback.
type Config struct {
	Port         string
	DatabasePath string
	StoreURL     string
	StationID    string
	MenuPath     string
	PollInterval time.Duration
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8090"),
		DatabasePath: getEnv("STORE_DB_PATH", "kiosk.db"),
		StoreURL:     getEnv("STORE_URL", "http://localhost:8090"),
		StationID:    getEnv("STATION_ID", ""),
		MenuPath:     getEnv("MENU_PATH", "menu.json"),
		PollInterval: getDuration("POLL_INTERVAL", 15*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
