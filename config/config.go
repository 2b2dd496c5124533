package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds connection and runtime settings for the filesystem,
// loadable from a TOML file with environment overrides.
type Config struct {
	ZoneHost string `toml:"zone_host"`
	Token    string `toml:"token"`
	Space    string `toml:"space"`
	Insecure bool   `toml:"insecure"`
	ReadOnly bool   `toml:"read_only"`

	// Per-request timeout in seconds; zero keeps the default.
	TimeoutSeconds int `toml:"timeout_seconds"`

	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`

	// Path to a SQLite attribute cache; empty keeps caching in memory only.
	CachePath string `toml:"cache_path"`
}

// Load reads a TOML config file and applies environment overrides.
// A missing file is not an error; the config is then built from the
// environment alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes a TOML document and applies environment overrides.
func Parse(document string) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal([]byte(document), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) applyEnv() {
	if value := os.Getenv("ONEDATAFS_ZONE_HOST"); value != "" {
		cfg.ZoneHost = value
	}
	if value := os.Getenv("ONEDATAFS_TOKEN"); value != "" {
		cfg.Token = value
	}
	if value := os.Getenv("ONEDATAFS_SPACE"); value != "" {
		cfg.Space = value
	}
	if value := os.Getenv("ONEDATAFS_INSECURE"); value != "" {
		cfg.Insecure = value == "true" || value == "1" || value == "yes"
	}
	if value := os.Getenv("ONEDATAFS_TIMEOUT"); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			cfg.TimeoutSeconds = seconds
		}
	}
	if value := os.Getenv("ONEDATAFS_LOG_LEVEL"); value != "" {
		cfg.LogLevel = value
	}
	if value := os.Getenv("ONEDATAFS_CACHE_PATH"); value != "" {
		cfg.CachePath = value
	}
}

// Validate checks that the config is complete enough to connect.
func (cfg *Config) Validate() error {
	if cfg.ZoneHost == "" {
		return fmt.Errorf("config: zone_host is required")
	}
	if cfg.Token == "" {
		return fmt.Errorf("config: token is required")
	}
	if cfg.TimeoutSeconds < 0 {
		return fmt.Errorf("config: timeout_seconds must not be negative")
	}

	return nil
}
