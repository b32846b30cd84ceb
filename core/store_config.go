package core

import (
	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
	"runtime"
	"strconv"
)

const (
	evPath     = "CURVEDB_PATH"
	evInMemory = "CURVEDB_IN_MEMORY"
	evCache    = "CURVEDB_CACHE"
	evWorkers  = "CURVEDB_WORKERS"
	evLogLevel = "CURVEDB_LOG_LEVEL"
)

type StoreConfig struct {
	Path         string `yaml:"path"`
	InMemory     bool   `yaml:"in_memory"`
	CacheEnabled bool   `yaml:"cache_enabled"`
	CacheMaxCost int64  `yaml:"cache_max_cost"`
	Workers      int    `yaml:"workers"`
	LogLevel     string `yaml:"log_level"`
}

func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		Path:         "curvedb",
		InMemory:     false,
		CacheEnabled: true,
		CacheMaxCost: 1 << 26,
		Workers:      runtime.NumCPU(),
		LogLevel:     "info",
	}
}

func InMemoryStoreConfig() *StoreConfig {
	config := DefaultStoreConfig()
	config.Path = ""
	config.InMemory = true
	return config
}

// LoadStoreConfig reads a YAML file over the defaults and then applies
// CURVEDB_* environment overrides. An empty path skips the file.
func LoadStoreConfig(path string) (*StoreConfig, error) {
	config := DefaultStoreConfig()
	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(buf, config); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	config.loadEnvVars()
	return config, config.Validate()
}

func (config *StoreConfig) loadEnvVars() {
	if x := os.Getenv(evPath); x != "" {
		config.Path = x
	}

	if x := os.Getenv(evInMemory); x != "" {
		if y, err := strconv.ParseBool(x); err == nil {
			config.InMemory = y
		}
	}

	if x := os.Getenv(evCache); x != "" {
		if y, err := strconv.ParseBool(x); err == nil {
			config.CacheEnabled = y
		}
	}

	if x := os.Getenv(evWorkers); x != "" {
		if y, err := strconv.ParseInt(x, 10, 32); err == nil {
			config.Workers = int(y)
		}
	}

	if x := os.Getenv(evLogLevel); x != "" {
		config.LogLevel = x
	}
}

func (config *StoreConfig) Validate() error {
	if !config.InMemory && config.Path == "" {
		return errors.New("config: path is required unless in_memory is set")
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.CacheEnabled && config.CacheMaxCost <= 0 {
		return fmt.Errorf("config: cache_max_cost must be positive, got %d", config.CacheMaxCost)
	}
	return nil
}
