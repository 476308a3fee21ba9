package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const defaultConfigFile = "config.yaml"

// Load reads configuration with precedence env > .env > YAML file > defaults.
//
// The YAML path comes from CONFIG_FILE, else config.yaml in the working directory
// when present. Environment variables map SECTION_FIELD to section.field, so
// AUTH_SECRET_KEY sets auth.secret_key and LLM_MAX_TOKENS sets llm.max_tokens.
func Load() (*Config, error) {
	// .env never overrides variables already exported
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	path := os.Getenv("CONFIG_FILE")
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	return LoadFile(path, explicit)
}

// LoadFile loads path (required when mustExist) and then the environment.
func LoadFile(path string, mustExist bool) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !mustExist:
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg, k)
	return &cfg, nil
}

var sections = map[string]bool{
	"app": true, "server": true, "database": true, "auth": true, "cors": true,
	"llm": true, "openai": true, "anthropic": true, "gemini": true, "smtp": true, "log": true,
}

// envKey splits on the first underscore only: LLM_MAX_TOKENS -> llm.max_tokens.
// Variables outside a known section are dropped.
func envKey(s string) string {
	parts := strings.SplitN(strings.ToLower(s), "_", 2)
	if len(parts) != 2 || !sections[parts[0]] || parts[1] == "" {
		return ""
	}
	return parts[0] + "." + parts[1]
}

func applyDefaults(cfg *Config, k *koanf.Koanf) {
	if cfg.App.Name == "" {
		cfg.App.Name = "ProspectPlus Agent"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "1.0.0"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = "sqlite://prospectplus.db"
	}

	if cfg.Auth.Algorithm == "" {
		cfg.Auth.Algorithm = "HS256"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 30 * time.Minute
	}

	if cfg.CORS.AllowedOrigins == "" {
		cfg.CORS.AllowedOrigins = "*"
	}

	if !k.Exists("llm.temperature") {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 2000
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 20 * time.Second
	}
	if !k.Exists("llm.rate_limit") {
		cfg.LLM.RateLimit = 2
	}
	if !k.Exists("llm.analyze_on_create") {
		cfg.LLM.AnalyzeOnCreate = true
	}

	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}
