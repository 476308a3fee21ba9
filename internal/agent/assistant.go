package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xavierca1/prospectplus-agent/internal/entity"
	"github.com/xavierca1/prospectplus-agent/internal/metrics"
)

const (
	analysisSystemPrompt = "You are a prospect analysis expert."
	chatSystemPrompt     = "You are an AI assistant specialized in prospect and lead management. " +
		"Help users analyze prospects, suggest next steps, and provide insights."

	analysisTemperature = 0.5
	analysisMaxTokens   = 1000
	modelConfidence     = 0.85
)

// ErrProviderUnavailable wraps every failed provider call.
var ErrProviderUnavailable = errors.New("llm provider unavailable")

// Assistant calls an external model and falls back to the heuristic on any failure.
type Assistant struct {
	provider    Provider
	timeout     time.Duration
	limiter     *rate.Limiter
	maxRetries  int
	backoff     time.Duration
	temperature float64
	maxTokens   int
	log         *zap.Logger
}

func NewAssistant(provider Provider, opts Options) *Assistant {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 2000
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst)
	}

	return &Assistant{
		provider:    provider,
		timeout:     opts.Timeout,
		limiter:     limiter,
		maxRetries:  max(opts.MaxRetries, 0),
		backoff:     opts.Backoff,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		log:         opts.Logger.With(zap.String("provider", provider.Name())),
	}
}

func (a *Assistant) Name() string    { return a.provider.Name() }
func (a *Assistant) AIEnabled() bool { return true }

func (a *Assistant) Analyze(ctx context.Context, p *entity.Prospect) (Analysis, error) {
	prompt := "Analyze this prospect and provide:\n" +
		"1. A score from 0-1 indicating quality\n" +
		"2. Key insights\n" +
		"3. Recommendations for engagement\n" +
		"4. Suggested next steps\n\n" +
		"Prospect: " + Summarize(p) + "\n\n" +
		`Respond with a JSON object: {"score": number, "insights": [string], "recommendations": [string], "next_steps": [string]}.`

	reply, err := a.complete(ctx, CompletionRequest{
		System:      []string{analysisSystemPrompt},
		Prompt:      prompt,
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
	})
	if err != nil {
		a.log.Warn("analysis fell back to heuristic", zap.String("prospect_id", p.ID), zap.Error(err))
		metrics.RecordAnalysis("heuristic", "fallback")
		return HeuristicAnalysis(p), nil
	}

	metrics.RecordAnalysis(a.provider.Name(), "ok")
	return parseAnalysis(reply), nil
}

func (a *Assistant) Chat(ctx context.Context, query string, chatCtx map[string]any) (ChatReply, error) {
	system := []string{chatSystemPrompt}
	if len(chatCtx) > 0 {
		raw, err := json.Marshal(chatCtx)
		if err == nil {
			system = append(system, "Context: "+string(raw))
		}
	}

	reply, err := a.complete(ctx, CompletionRequest{
		System:      system,
		Prompt:      query,
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
	if err != nil {
		a.log.Warn("chat fell back to limited mode", zap.Error(err))
		return LimitedReply(query), nil
	}

	return ChatReply{
		Response:   reply,
		Confidence: modelConfidence,
		Sources:    []string{},
		Metadata:   map[string]any{"provider": a.provider.Name(), "model": a.provider.Model()},
	}, nil
}

// complete makes one bounded attempt plus up to maxRetries more.
func (a *Assistant) complete(ctx context.Context, req CompletionRequest) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 && a.backoff > 0 {
			timer := time.NewTimer(a.backoff * time.Duration(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, ctx.Err())
			case <-timer.C:
			}
		}

		reply, err := a.attempt(ctx, req)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		metrics.RecordProviderError(a.provider.Name())
		a.log.Debug("provider call failed", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, lastErr)
}

func (a *Assistant) attempt(ctx context.Context, req CompletionRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.limiter.Wait(callCtx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	reply, err := a.provider.Complete(callCtx, req)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", errors.New("empty completion")
	}
	return reply, nil
}

// Summarize renders the one-line prospect description sent to the model.
func Summarize(p *entity.Prospect) string {
	orUnknown := func(s string) string {
		if s == "" {
			return "Unknown"
		}
		return s
	}
	status := string(p.Status)
	if status == "" {
		status = string(entity.StatusNew)
	}
	priority := string(p.Priority)
	if priority == "" {
		priority = string(entity.PriorityMedium)
	}

	parts := []string{
		"Company: " + orUnknown(p.CompanyName),
		"Contact: " + orUnknown(p.ContactName),
		"Industry: " + orUnknown(p.Industry),
		"Status: " + status,
		"Priority: " + priority,
	}
	if p.Notes != "" {
		parts = append(parts, "Notes: "+p.Notes)
	}
	return strings.Join(parts, " | ")
}

// stringList accepts either a JSON array of strings or a single string.
type stringList []string

func (l *stringList) UnmarshalJSON(b []byte) error {
	var many []string
	if err := json.Unmarshal(b, &many); err == nil {
		*l = many
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*l = []string{one}
	return nil
}

type modelAnalysis struct {
	Score           *float64   `json:"score"`
	Insights        stringList `json:"insights"`
	Recommendations stringList `json:"recommendations"`
	NextSteps       stringList `json:"next_steps"`
}

// parseAnalysis maps a model reply; anything without a numeric score gets the plain-text mapping.
func parseAnalysis(reply string) Analysis {
	if start, end := strings.Index(reply, "{"), strings.LastIndex(reply, "}"); start >= 0 && end > start {
		var m modelAnalysis
		if err := json.Unmarshal([]byte(reply[start:end+1]), &m); err == nil && m.Score != nil {
			return Analysis{
				Score:           roundScore(clampScore(*m.Score)),
				Insights:        nonEmpty(m.Insights),
				Recommendations: nonEmpty(m.Recommendations),
				NextSteps:       nonEmpty(m.NextSteps),
				Confidence:      modelConfidence,
			}
		}
	}

	insight := reply
	if r := []rune(reply); len(r) > 200 {
		insight = string(r[:200])
	}
	return Analysis{
		Score:           0.75,
		Insights:        []string{insight},
		Recommendations: []string{"Follow up within 48 hours"},
		NextSteps:       []string{"Schedule discovery call"},
		Confidence:      modelConfidence,
	}
}

func nonEmpty(l stringList) []string {
	if l == nil {
		return []string{}
	}
	return l
}
