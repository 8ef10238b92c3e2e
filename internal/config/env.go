package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read at startup.
const (
	EnvDBPath   = "QURAN_TRACKER_DB"
	EnvLogLevel = "QURAN_TRACKER_LOG_LEVEL"
	EnvTimezone = "QURAN_TRACKER_TZ"
)

// LoadEnv loads .env files if present. Variables already set win.
func LoadEnv(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

// ResolveLocation returns the location for calendar math. The env variable
// wins over the config file; empty or "Local" means the system zone.
func ResolveLocation(cfg FileConfig) (*time.Location, error) {
	name := os.Getenv(EnvTimezone)
	if name == "" && cfg.Tracker.Timezone != nil {
		name = *cfg.Tracker.Timezone
	}
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// ResolveLogLevel returns the log level from env, config, or the fallback.
func ResolveLogLevel(cfg FileConfig, fallback string) string {
	if v := os.Getenv(EnvLogLevel); v != "" {
		return v
	}
	if cfg.Log.Level != nil && *cfg.Log.Level != "" {
		return *cfg.Log.Level
	}
	return fallback
}
