package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/xavierca1/prospectplus-agent/internal/agent"
)

func newStubGemini(t *testing.T, h http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	g, err := newGemini(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	}, "gemini-test")
	require.NoError(t, err)
	return g
}

func TestGeminiComplete(t *testing.T) {
	var (
		path string
		key  string
		body []byte
	)
	g := newStubGemini(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		key = r.Header.Get("x-goog-api-key")
		body, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"hello"}]}}]}`))
	})

	out, err := g.Complete(context.Background(), agent.CompletionRequest{
		System:      []string{"be brief", "Context: {}"},
		Prompt:      "hi",
		Temperature: 0.5,
		MaxTokens:   100,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	assert.True(t, strings.HasSuffix(path, "models/gemini-test:generateContent"), path)
	assert.Equal(t, "test-key", key)

	var req struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
		SystemInstruction struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"systemInstruction"`
		GenerationConfig struct {
			Temperature     float64 `json:"temperature"`
			MaxOutputTokens int     `json:"maxOutputTokens"`
		} `json:"generationConfig"`
	}
	require.NoError(t, json.Unmarshal(body, &req))

	require.Len(t, req.Contents, 1)
	assert.Equal(t, "hi", req.Contents[0].Parts[0].Text)
	require.Len(t, req.SystemInstruction.Parts, 1)
	assert.Equal(t, "be brief\n\nContext: {}", req.SystemInstruction.Parts[0].Text)
	assert.Equal(t, 100, req.GenerationConfig.MaxOutputTokens)
	assert.InDelta(t, 0.5, req.GenerationConfig.Temperature, 1e-6)
}

func TestGeminiCompleteError(t *testing.T) {
	g := newStubGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":401,"message":"API key not valid","status":"UNAUTHENTICATED"}}`))
	})

	_, err := g.Complete(context.Background(), agent.CompletionRequest{Prompt: "hi"})
	assert.ErrorContains(t, err, "gemini completion")
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "gemini-test")
	assert.Error(t, err)
}
