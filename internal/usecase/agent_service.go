package usecase

import (
	"context"

	"github.com/xavierca1/prospectplus-agent/internal/agent"
)

var agentCapabilities = []string{
	"prospect_analysis",
	"chat_interaction",
	"recommendations",
	"insights_generation",
}

// AgentService fronts the configured analyzer for the chat and status endpoints.
type AgentService struct {
	Analyzer agent.Analyzer
	Version  string
}

func NewAgentService(analyzer agent.Analyzer, version string) *AgentService {
	if analyzer == nil {
		analyzer = agent.Heuristic{}
	}
	return &AgentService{Analyzer: analyzer, Version: version}
}

// Chat ignores in.Stream; replies are always returned whole.
func (s *AgentService) Chat(ctx context.Context, in ChatInput) (*agent.ChatReply, error) {
	if errs := ValidateChatInput(in); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}
	reply, err := s.Analyzer.Chat(ctx, in.Query, in.Context)
	if err != nil {
		fallback := agent.LimitedReply(in.Query)
		return &fallback, nil
	}
	return &reply, nil
}

func (s *AgentService) Status() AgentStatusOutput {
	return AgentStatusOutput{
		Status:       "operational",
		Capabilities: agentCapabilities,
		AIEnabled:    s.Analyzer.AIEnabled(),
		Provider:     s.Analyzer.Name(),
		Version:      s.Version,
	}
}
