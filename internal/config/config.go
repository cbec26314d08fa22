// Package config loads runtime configuration from the XDG config file,
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/extract"
)

type Config struct {
	Server     ServerConfig
	Ollama     OllamaConfig
	Storage    StorageConfig
	Extraction ExtractionConfig
	Chat       ChatConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port int
	// AuthToken guards the profile-management endpoints. Set only via
	// the TUX_AUTH_TOKEN environment variable; when empty those
	// endpoints are disabled.
	AuthToken string
}

type OllamaConfig struct {
	BaseURL string
	Model   string
}

type StorageConfig struct {
	DataDir string
}

type ExtractionConfig struct {
	// Strategy selects the profile extractor: "rules" or "llm".
	Strategy string
}

type ChatConfig struct {
	MaxSteps  int
	MaxTokens int
}

type LogConfig struct {
	// Level is "debug" or "info".
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4040,
		},
		Ollama: OllamaConfig{
			BaseURL: "http://localhost:11434",
			Model:   "llama3.1:8b",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Extraction: ExtractionConfig{
			Strategy: extract.StrategyRules,
		},
		Chat: ChatConfig{
			MaxSteps:  5,
			MaxTokens: 2048,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON file at
// $XDG_CONFIG_HOME/tux/config.json, then applies TUX_* environment
// overrides.
func Load() (Config, error) {
	return loadWith(newFileBackend(configFilePath()))
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)

	switch cfg.Extraction.Strategy {
	case extract.StrategyRules, extract.StrategyLLM:
	default:
		return Config{}, fmt.Errorf("invalid extraction.strategy %q: must be %q or %q",
			cfg.Extraction.Strategy, extract.StrategyRules, extract.StrategyLLM)
	}

	return cfg, nil
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "tux-data"
		}
	}
	return filepath.Join(dir, "tux")
}

func configFilePath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, "tux", "config.json")
}
