package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/xavierca1/prospectplus-agent/internal/agent"
)

// LangChain drives any langchaingo chat model.
type LangChain struct {
	name  string
	model string
	llm   llms.Model
}

func NewLangChain(name, model string, llm llms.Model) *LangChain {
	return &LangChain{name: name, model: model, llm: llm}
}

func NewOpenAI(apiKey, model, baseURL string) (*LangChain, error) {
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}
	return NewLangChain(ProviderOpenAI, model, client), nil
}

func NewAnthropic(apiKey, model string) (*LangChain, error) {
	client, err := anthropic.New(anthropic.WithToken(apiKey), anthropic.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("creating Anthropic client: %w", err)
	}
	return NewLangChain(ProviderAnthropic, model, client), nil
}

func (l *LangChain) Name() string  { return l.name }
func (l *LangChain) Model() string { return l.model }

func (l *LangChain) Complete(ctx context.Context, req agent.CompletionRequest) (string, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if len(req.System) > 0 {
		// some backends accept a single system message only
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, strings.Join(req.System, "\n\n")))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))

	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	resp, err := l.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", l.name, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New(l.name + " completion: no choices returned")
	}
	return resp.Choices[0].Content, nil
}
