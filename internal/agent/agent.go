// Package agent scores prospects and answers free-form questions, either through an
// external language model or through a deterministic rule set.
package agent

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/prospectplus-agent/internal/entity"
)

type Analysis struct {
	Score           float64  `json:"score"`
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
	NextSteps       []string `json:"next_steps"`
	Confidence      float64  `json:"confidence"`
}

type ChatReply struct {
	Response   string         `json:"response"`
	Confidence float64        `json:"confidence"`
	Sources    []string       `json:"sources"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Analyzer is the strategy used for prospect scoring and chat.
type Analyzer interface {
	Analyze(ctx context.Context, p *entity.Prospect) (Analysis, error)
	Chat(ctx context.Context, query string, context map[string]any) (ChatReply, error)
	Name() string
	AIEnabled() bool
}

// CompletionRequest is one chat-completion call: system messages first, then the user prompt.
type CompletionRequest struct {
	System      []string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Provider is an external chat-completion backend.
type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type Options struct {
	Timeout     time.Duration
	RateLimit   float64 // calls per second, 0 disables limiting
	Burst       int
	MaxRetries  int
	Backoff     time.Duration
	Temperature float64
	MaxTokens   int
	Logger      *zap.Logger
}

// New selects the strategy once: nil provider means the heuristic.
func New(provider Provider, opts Options) Analyzer {
	if provider == nil {
		return Heuristic{}
	}
	return NewAssistant(provider, opts)
}
