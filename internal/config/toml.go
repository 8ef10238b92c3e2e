// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Tracker TrackerConfig `toml:"tracker"`
	Display DisplayConfig `toml:"display"`
	Log     LogConfig     `toml:"log"`
}

// TrackerConfig maps setup defaults and the timezone used for calendar math.
type TrackerConfig struct {
	StartDate *string `toml:"start-date"`
	Target    *int    `toml:"target"`
	Timezone  *string `toml:"timezone"`
}

// DisplayConfig maps dashboard settings.
type DisplayConfig struct {
	Refresh *string `toml:"refresh"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Pretty *bool   `toml:"pretty"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
