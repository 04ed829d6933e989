// ABOUTME: Application configuration: defaults, YAML file, then environment
// ABOUTME: Later sources override earlier ones; all keys are optional
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Remote struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

type Config struct {
	DBPath       string `yaml:"db_path"`
	HTTPAddr     string `yaml:"http_addr"`
	GeminiAPIKey string `yaml:"gemini_api_key"`
	LogLevel     string `yaml:"log_level"`
	Remote       Remote `yaml:"remote"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath:   filepath.Join(xdg.DataHome, "prospekt", "prospekt.db"),
		HTTPAddr: ":8080",
		LogLevel: "info",
	}
}

// DefaultPath is the standard config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "prospekt", "config.yaml")
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment. A missing config file is not an error; a malformed
// one is.
func Load(path string) (Config, error) {
	// .env is developer convenience, ignore absence.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return Config{}, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PROSPEKT_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PROSPEKT_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv("PROSPEKT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PROSPEKT_REMOTE_URL"); v != "" {
		cfg.Remote.URL = v
	}
	if v := os.Getenv("PROSPEKT_REMOTE_API_KEY"); v != "" {
		cfg.Remote.APIKey = v
	}
}
