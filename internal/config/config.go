// Package config loads settings from defaults, an optional YAML file, .env and the environment.
package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Auth      AuthConfig      `koanf:"auth"`
	CORS      CORSConfig      `koanf:"cors"`
	LLM       LLMConfig       `koanf:"llm"`
	OpenAI    OpenAIConfig    `koanf:"openai"`
	Anthropic AnthropicConfig `koanf:"anthropic"`
	Gemini    GeminiConfig    `koanf:"gemini"`
	SMTP      SMTPConfig      `koanf:"smtp"`
	Log       LogConfig       `koanf:"log"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	Debug       bool   `koanf:"debug"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// TrustProxy takes the client address from forwarding headers.
	TrustProxy      bool          `koanf:"trust_proxy"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	URL string `koanf:"url"`
}

type AuthConfig struct {
	SecretKey    string        `koanf:"secret_key"`
	Algorithm    string        `koanf:"algorithm"`
	TokenTTL     time.Duration `koanf:"token_ttl"`
	Required     bool          `koanf:"required"`
	DemoUsername string        `koanf:"demo_username"`
	DemoPassword string        `koanf:"demo_password"`
	DemoEmail    string        `koanf:"demo_email"`
}

type CORSConfig struct {
	AllowedOrigins string `koanf:"allowed_origins"`
}

// Origins splits the comma separated origin list.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

type LLMConfig struct {
	Provider        string        `koanf:"provider"`
	Model           string        `koanf:"model"`
	Temperature     float64       `koanf:"temperature"`
	MaxTokens       int           `koanf:"max_tokens"`
	Timeout         time.Duration `koanf:"timeout"`
	RateLimit       float64       `koanf:"rate_limit"`
	MaxRetries      int           `koanf:"max_retries"`
	AnalyzeOnCreate bool          `koanf:"analyze_on_create"`
}

type OpenAIConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
}

type AnthropicConfig struct {
	APIKey string `koanf:"api_key"`
}

type GeminiConfig struct {
	APIKey string `koanf:"api_key"`
}

type SMTPConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"pass"`
	From string `koanf:"from"`
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Validate checks what the API server needs to start. The CLI only needs the database section.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.SecretKey) == "" {
		return fmt.Errorf("AUTH_SECRET_KEY is required")
	}
	switch c.Auth.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("auth.algorithm %q is not supported", c.Auth.Algorithm)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm.max_retries must not be negative")
	}
	return nil
}
