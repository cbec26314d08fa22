package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "TUX_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "server.auth_token", typ: kString, env: "TUX_AUTH_TOKEN",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Server.AuthToken = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.AuthToken },
	},
	{
		key: "ollama.base_url", typ: kString, env: "TUX_OLLAMA_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Ollama.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Ollama.BaseURL },
	},
	{
		key: "ollama.model", typ: kString, env: "TUX_OLLAMA_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Ollama.Model = v.(string) },
		extract: func(cfg Config) any { return cfg.Ollama.Model },
	},
	{
		key: "storage.data_dir", typ: kString, env: "TUX_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "extraction.strategy", typ: kString, env: "TUX_EXTRACTION_STRATEGY",
		apply:   func(cfg *Config, v any) { cfg.Extraction.Strategy = v.(string) },
		extract: func(cfg Config) any { return cfg.Extraction.Strategy },
	},
	{
		key: "chat.max_steps", typ: kInt, env: "TUX_CHAT_MAX_STEPS",
		apply:   func(cfg *Config, v any) { cfg.Chat.MaxSteps = v.(int) },
		extract: func(cfg Config) any { return cfg.Chat.MaxSteps },
	},
	{
		key: "chat.max_tokens", typ: kInt, env: "TUX_CHAT_MAX_TOKENS",
		apply:   func(cfg *Config, v any) { cfg.Chat.MaxTokens = v.(int) },
		extract: func(cfg Config) any { return cfg.Chat.MaxTokens },
	},
	{
		key: "log.level", typ: kString, env: "TUX_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
