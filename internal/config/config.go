// Package config loads the console configuration from a YAML file with
// environment overrides. A .env file is honored for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the console's runtime configuration.
type Config struct {
	// APIBaseURL is the platform admin API root, e.g.
	// "https://platform.example.com/api".
	APIBaseURL string `yaml:"api_base_url"`
	// HubURL overrides the order hub endpoint; derived from APIBaseURL
	// when empty.
	HubURL      string `yaml:"hub_url"`
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	// DBPath is the local state database file.
	DBPath string `yaml:"db_path"`
}

// Load reads the config file (optional), applies environment overrides, and
// validates the result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		// .env is optional
	}

	cfg := &Config{
		Port:        8080,
		MetricsPort: 9090,
		DBPath:      "orderboard.db",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.APIBaseURL = envOrDefault("ORDERBOARD_API_URL", cfg.APIBaseURL)
	cfg.HubURL = envOrDefault("ORDERBOARD_HUB_URL", cfg.HubURL)
	cfg.DBPath = envOrDefault("ORDERBOARD_DB_PATH", cfg.DBPath)
	cfg.Port = envIntOrDefault("ORDERBOARD_PORT", cfg.Port)
	cfg.MetricsPort = envIntOrDefault("ORDERBOARD_METRICS_PORT", cfg.MetricsPort)

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("api_base_url is required (or set ORDERBOARD_API_URL)")
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
