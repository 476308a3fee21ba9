package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prospectplus-agent/internal/entity"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Name() string  { return "mock" }
func (m *mockProvider) Model() string { return "mock-1" }

func (m *mockProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// blockingProvider waits until the call context is done.
type blockingProvider struct{}

func (blockingProvider) Name() string  { return "slow" }
func (blockingProvider) Model() string { return "slow-1" }
func (blockingProvider) Complete(ctx context.Context, _ CompletionRequest) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func testProspect() *entity.Prospect {
	return &entity.Prospect{
		ID:          "p-1",
		CompanyName: "Acme",
		ContactName: "Jane",
		Industry:    "Tech",
		Status:      entity.StatusNew,
		Priority:    entity.PriorityHigh,
	}
}

func TestSummarize(t *testing.T) {
	p := testProspect()
	assert.Equal(t, "Company: Acme | Contact: Jane | Industry: Tech | Status: new | Priority: high", Summarize(p))

	p.Industry = ""
	p.Notes = "wants a demo"
	assert.Equal(t, "Company: Acme | Contact: Jane | Industry: Unknown | Status: new | Priority: high | Notes: wants a demo", Summarize(p))
}

func TestAssistantAnalyzeParsesJSONReply(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Complete", mock.Anything, mock.MatchedBy(func(req CompletionRequest) bool {
		return req.System[0] == analysisSystemPrompt && strings.Contains(req.Prompt, "Company: Acme")
	})).Return("Sure!\n```json\n{\"score\": 0.92, \"insights\": [\"Strong fit\"], \"recommendations\": \"Call today\", \"next_steps\": [\"Send deck\"]}\n```", nil)

	a := NewAssistant(provider, Options{})
	got, err := a.Analyze(context.Background(), testProspect())
	require.NoError(t, err)

	assert.Equal(t, 0.92, got.Score)
	assert.Equal(t, []string{"Strong fit"}, got.Insights)
	assert.Equal(t, []string{"Call today"}, got.Recommendations)
	assert.Equal(t, []string{"Send deck"}, got.NextSteps)
	assert.Equal(t, 0.85, got.Confidence)
	provider.AssertExpectations(t)
}

func TestAssistantAnalyzePlainTextReply(t *testing.T) {
	long := strings.Repeat("a", 250)
	provider := new(mockProvider)
	provider.On("Complete", mock.Anything, mock.Anything).Return(long, nil)

	got, err := NewAssistant(provider, Options{}).Analyze(context.Background(), testProspect())
	require.NoError(t, err)

	assert.Equal(t, 0.75, got.Score)
	require.Len(t, got.Insights, 1)
	assert.Len(t, got.Insights[0], 200)
	assert.Equal(t, []string{"Follow up within 48 hours"}, got.Recommendations)
	assert.Equal(t, []string{"Schedule discovery call"}, got.NextSteps)
	assert.Equal(t, 0.85, got.Confidence)
}

func TestAssistantAnalyzeClampsScore(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Complete", mock.Anything, mock.Anything).Return(`{"score": 7}`, nil)

	got, err := NewAssistant(provider, Options{}).Analyze(context.Background(), testProspect())
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Score)
	assert.Empty(t, got.Insights)
}

func TestAssistantAnalyzeFallsBackOnError(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded")).Once()

	p := testProspect()
	got, err := NewAssistant(provider, Options{}).Analyze(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, HeuristicAnalysis(p), got)
	provider.AssertNumberOfCalls(t, "Complete", 1)
}

func TestAssistantAnalyzeFallsBackOnTimeout(t *testing.T) {
	a := NewAssistant(blockingProvider{}, Options{Timeout: 20 * time.Millisecond})

	p := testProspect()
	start := time.Now()
	got, err := a.Analyze(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, HeuristicAnalysis(p), got)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestAssistantRetries(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("503")).Once()
	provider.On("Complete", mock.Anything, mock.Anything).Return(`{"score": 0.4}`, nil).Once()

	a := NewAssistant(provider, Options{MaxRetries: 1, Backoff: time.Millisecond})
	got, err := a.Analyze(context.Background(), testProspect())
	require.NoError(t, err)
	assert.Equal(t, 0.4, got.Score)
	provider.AssertNumberOfCalls(t, "Complete", 2)
}

func TestAssistantEmptyReplyIsFailure(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Complete", mock.Anything, mock.Anything).Return("   ", nil)

	p := testProspect()
	got, err := NewAssistant(provider, Options{}).Analyze(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 0.6, got.Confidence)
}

func TestAssistantChat(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Complete", mock.Anything, mock.MatchedBy(func(req CompletionRequest) bool {
		return len(req.System) == 2 &&
			req.System[0] == chatSystemPrompt &&
			req.System[1] == `Context: {"prospect_id":"p-1"}` &&
			req.Prompt == "next step?" &&
			req.Temperature == 0.7 &&
			req.MaxTokens == 2000
	})).Return("Book a demo.", nil)

	a := NewAssistant(provider, Options{Temperature: 0.7, MaxTokens: 2000})
	reply, err := a.Chat(context.Background(), "next step?", map[string]any{"prospect_id": "p-1"})
	require.NoError(t, err)

	assert.Equal(t, "Book a demo.", reply.Response)
	assert.Equal(t, 0.85, reply.Confidence)
	assert.Empty(t, reply.Sources)
	assert.Equal(t, "mock", reply.Metadata["provider"])
	assert.True(t, a.AIEnabled())
	provider.AssertExpectations(t)
}

func TestAssistantChatFallsBack(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("boom"))

	reply, err := NewAssistant(provider, Options{}).Chat(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, LimitedReply("hello"), reply)
}

func TestAssistantRateLimitHonoursContext(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Complete", mock.Anything, mock.Anything).Return(`{"score": 0.9}`, nil)

	a := NewAssistant(provider, Options{RateLimit: 0.001, Burst: 1, Timeout: 50 * time.Millisecond})

	first, err := a.Analyze(context.Background(), testProspect())
	require.NoError(t, err)
	assert.Equal(t, 0.9, first.Score)

	// bucket is empty and the next token is far beyond the call timeout
	second, err := a.Analyze(context.Background(), testProspect())
	require.NoError(t, err)
	assert.Equal(t, 0.6, second.Confidence)
	provider.AssertNumberOfCalls(t, "Complete", 1)
}
