package agent

import (
	"context"
	"fmt"
	"math"

	"github.com/xavierca1/prospectplus-agent/internal/entity"
)

const limitedModeReply = "I'm currently running in limited mode. To enable full AI capabilities, " +
	"please configure an AI provider API key. Your query was: %s"

// Heuristic is the rule-based strategy. Its output depends only on the prospect fields.
type Heuristic struct{}

func (Heuristic) Name() string    { return "heuristic" }
func (Heuristic) AIEnabled() bool { return false }

func (Heuristic) Analyze(_ context.Context, p *entity.Prospect) (Analysis, error) {
	return HeuristicAnalysis(p), nil
}

func (Heuristic) Chat(_ context.Context, query string, _ map[string]any) (ChatReply, error) {
	return LimitedReply(query), nil
}

func HeuristicAnalysis(p *entity.Prospect) Analysis {
	score := 0.5
	var insights []string

	if p.Industry != "" {
		score += 0.1
		insights = append(insights, "Industry: "+p.Industry)
	}
	if p.CompanySize != "" {
		score += 0.1
		insights = append(insights, "Company size: "+p.CompanySize)
	}
	if p.Website != "" {
		score += 0.1
		insights = append(insights, "Has company website")
	}
	if len(insights) == 0 {
		insights = []string{"New prospect - needs initial qualification"}
	}

	rec := "Schedule follow-up within 1 week"
	if p.Priority.Urgent() {
		rec = "High priority - immediate follow-up recommended"
	}

	return Analysis{
		Score:           roundScore(math.Min(score, 1.0)),
		Insights:        insights,
		Recommendations: []string{rec},
		NextSteps:       []string{"Initial outreach", "Gather qualification data"},
		Confidence:      0.6,
	}
}

func LimitedReply(query string) ChatReply {
	return ChatReply{
		Response:   fmt.Sprintf(limitedModeReply, query),
		Confidence: 0.5,
		Sources:    []string{},
		Metadata:   map[string]any{"mode": "limited"},
	}
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
