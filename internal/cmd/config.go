package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/baderali164/sevens/internal/events"
	"github.com/baderali164/sevens/internal/registry"
)

// Config is the server configuration. Values come from an optional YAML
// file with environment overrides applied on top.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Rooms  RoomsConfig  `yaml:"rooms"`
	NATS   NATSConfig   `yaml:"nats"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Port                   string `yaml:"port"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
}

type RoomsConfig struct {
	CodeLength int `yaml:"code_length"`
}

// NATSConfig controls lifecycle event publishing. Publishing stays
// disabled while URL is empty.
type NATSConfig struct {
	URL           string `yaml:"url"`
	Stream        string `yaml:"stream"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

func defaultConfig() Config {
	js := events.DefaultJetStreamConfig()
	return Config{
		Server: ServerConfig{
			Port:                   "8080",
			ShutdownTimeoutSeconds: 10,
		},
		Rooms: RoomsConfig{
			CodeLength: registry.DefaultCodeLength,
		},
		NATS: NATSConfig{
			Stream:        js.StreamName,
			SubjectPrefix: js.SubjectPrefix,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// loadConfig builds the runtime config. A missing path means defaults
// plus environment only.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// applyEnvOverrides lets the environment win over file values.
func applyEnvOverrides(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Rooms.CodeLength = getEnvAsInt("ROOM_CODE_LENGTH", cfg.Rooms.CodeLength)
	cfg.NATS.URL = getEnv("NATS_URL", cfg.NATS.URL)
	cfg.NATS.Stream = getEnv("NATS_STREAM", cfg.NATS.Stream)
	cfg.NATS.SubjectPrefix = getEnv("NATS_SUBJECT_PREFIX", cfg.NATS.SubjectPrefix)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
