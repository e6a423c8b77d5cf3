package main

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is resolved from defaults, then the optional YAML file named by
// BOUNCE_CONFIG_FILE, then environment variables.
type Config struct {
	HTTPAddress  string `yaml:"http_addr" env:"BOUNCE_HTTP_ADDR"`
	StorePath    string `yaml:"store_path" env:"BOUNCE_STORE_PATH"`
	StaticDir    string `yaml:"static_dir" env:"BOUNCE_STATIC_DIR"`
	LogLevel     string `yaml:"log_level" env:"BOUNCE_LOG_LEVEL"`
	LogFile      string `yaml:"log_file" env:"BOUNCE_LOG_FILE"`
	OTelEndpoint string `yaml:"otel_endpoint" env:"BOUNCE_OTEL_ENDPOINT"`
	OTelEnabled  bool   `yaml:"otel_enabled" env:"BOUNCE_OTEL_ENABLED"`
}

// memoryStore selects the in-memory repository instead of a file.
const memoryStore = ":memory:"

func defaultConfig() Config {
	return Config{
		HTTPAddress: "0.0.0.0:3000",
		StorePath:   "leaderboard.json",
		StaticDir:   ".",
		LogLevel:    "info",
		OTelEnabled: true,
	}
}

func loadConfig() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("BOUNCE_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
