// Package llm adapts hosted chat-completion APIs to agent.Provider.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/xavierca1/prospectplus-agent/internal/agent"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"

	defaultOpenAIModel    = "gpt-4-turbo-preview"
	defaultAnthropicModel = "claude-3-5-sonnet-latest"
	defaultGeminiModel    = "gemini-2.0-flash"
)

type Settings struct {
	Provider      string
	Model         string
	OpenAIKey     string
	OpenAIBaseURL string
	AnthropicKey  string
	GeminiKey     string
}

// Resolve names the provider to use: the explicit one, else the first with a key, else "".
func (s Settings) Resolve() string {
	if p := strings.ToLower(strings.TrimSpace(s.Provider)); p != "" && p != "auto" {
		return p
	}
	switch {
	case s.OpenAIKey != "":
		return ProviderOpenAI
	case s.AnthropicKey != "":
		return ProviderAnthropic
	case s.GeminiKey != "":
		return ProviderGemini
	}
	return ""
}

// modelFor keeps the configured model unless it clearly belongs to another vendor.
func (s Settings) modelFor(provider string) string {
	m := strings.TrimSpace(s.Model)
	switch provider {
	case ProviderOpenAI:
		if m == "" {
			return defaultOpenAIModel
		}
	case ProviderAnthropic:
		if m == "" || !strings.HasPrefix(m, "claude") {
			return defaultAnthropicModel
		}
	case ProviderGemini:
		if m == "" || !strings.HasPrefix(m, "gemini") {
			return defaultGeminiModel
		}
	}
	return m
}

// NewProvider builds the configured provider. It returns nil, nil when no provider is configured.
func NewProvider(ctx context.Context, s Settings) (agent.Provider, error) {
	name := s.Resolve()
	switch name {
	case "", "none", "heuristic":
		return nil, nil
	case ProviderOpenAI:
		if s.OpenAIKey == "" {
			return nil, fmt.Errorf("openai provider selected without OPENAI_API_KEY")
		}
		p, err := NewOpenAI(s.OpenAIKey, s.modelFor(ProviderOpenAI), s.OpenAIBaseURL)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderAnthropic:
		if s.AnthropicKey == "" {
			return nil, fmt.Errorf("anthropic provider selected without ANTHROPIC_API_KEY")
		}
		p, err := NewAnthropic(s.AnthropicKey, s.modelFor(ProviderAnthropic))
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderGemini:
		if s.GeminiKey == "" {
			return nil, fmt.Errorf("gemini provider selected without GEMINI_API_KEY")
		}
		p, err := NewGemini(ctx, s.GeminiKey, s.modelFor(ProviderGemini))
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", name)
}
