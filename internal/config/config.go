// Package config handles loading and parsing application configuration.
// It supports two sources for the YAML file path (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// When neither is set the configuration comes from environment variables
// and env-default values alone, so the binary runs with zero setup.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the filesystem path to the SQLite .db file.
	// The file is created on first start if it does not exist.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"storage/students.db"`
}

// ErrEmptyStoragePath is returned when the storage path resolves to "".
var ErrEmptyStoragePath = errors.New("config: storage_path must not be empty")

// Load reads the configuration from the file at path, falling back to
// environment variables and defaults when path is empty.
// Priority: ENV > YAML > env-default.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		// Give a clear message rather than a cryptic "open: no such file".
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if cfg.StoragePath == "" {
		return nil, ErrEmptyStoragePath
	}

	return &cfg, nil
}

// MustLoad resolves the config path, loads it, and returns the config.
//
// Functions prefixed with "Must" are allowed to fatal on failure. If this
// function returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %s", err.Error())
	}

	return cfg
}
