// internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config carries the session's label/base-path/base-URL triple plus ambient
// settings. The label and URL are context for consumers only; nothing in the
// diff/commit path reads them.
type Config struct {
	Label     string `json:"label"`
	BasePath  string `json:"base_path"`
	BaseURL   string `json:"base_url"`
	LogLevel  string `json:"log_level"`  // debug, info, warn, error
	CacheSize int    `json:"cache_size"` // fingerprint cache entries
}

// Default returns a config suitable for running against dir.
func Default(dir string) *Config {
	return &Config{
		Label:     "slate",
		BasePath:  dir,
		LogLevel:  "info",
		CacheSize: 256,
	}
}

// Load reads a JSON config file and fills in defaults for omitted fields.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if config.BasePath == "" {
		return nil, fmt.Errorf("base_path is required")
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.CacheSize == 0 {
		config.CacheSize = 256
	}

	return &config, nil
}
