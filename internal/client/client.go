// Package client talks to the ProspectPlus HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/prospectplus-agent/internal/agent"
	"github.com/xavierca1/prospectplus-agent/internal/entity"
	"github.com/xavierca1/prospectplus-agent/internal/usecase"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int
	Code    string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error (status %d)", e.Status)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Code, e.Message, e.Status)
}

type Health struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Environment  string            `json:"environment"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

type ListOptions struct {
	Status   string
	Priority string
	Industry string
	Skip     int
	Limit    int
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request health: %w", err)
	}
	defer resp.Body.Close()

	// a degraded server answers 503 with the same body
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return nil, &APIError{Status: resp.StatusCode}
	}
	var out Health
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode health: %w", err)
	}
	return &out, nil
}

func (c *Client) ListProspects(ctx context.Context, opts ListOptions) ([]entity.Prospect, error) {
	q := url.Values{}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Priority != "" {
		q.Set("priority", opts.Priority)
	}
	if opts.Industry != "" {
		q.Set("industry", opts.Industry)
	}
	if opts.Skip > 0 {
		q.Set("skip", strconv.Itoa(opts.Skip))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	path := "/api/prospects"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []entity.Prospect
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProspect(ctx context.Context, in usecase.CreateProspectInput) (*entity.Prospect, error) {
	var out entity.Prospect
	if err := c.do(ctx, http.MethodPost, "/api/prospects", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProspect(ctx context.Context, id string) (*entity.Prospect, error) {
	var out entity.Prospect
	if err := c.do(ctx, http.MethodGet, "/api/prospects/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProspect(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/prospects/"+url.PathEscape(id), nil, nil)
}

func (c *Client) AnalyzeProspect(ctx context.Context, id string) (*usecase.AnalysisOutput, error) {
	var out usecase.AnalysisOutput
	if err := c.do(ctx, http.MethodPost, "/api/prospects/"+url.PathEscape(id)+"/analyze", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Chat(ctx context.Context, query string) (*agent.ChatReply, error) {
	var out agent.ChatReply
	if err := c.do(ctx, http.MethodPost, "/api/agent/chat", usecase.ChatInput{Query: query}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AgentStatus(ctx context.Context) (*usecase.AgentStatusOutput, error) {
	var out usecase.AgentStatusOutput
	if err := c.do(ctx, http.MethodGet, "/api/agent/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Overview(ctx context.Context, start, end string) (*usecase.OverviewOutput, error) {
	q := url.Values{}
	if start != "" {
		q.Set("start_date", start)
	}
	if end != "" {
		q.Set("end_date", end)
	}
	path := "/api/analytics/overview"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out usecase.OverviewOutput
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Trends(ctx context.Context, days int) (*usecase.TrendsOutput, error) {
	path := "/api/analytics/trends"
	if days > 0 {
		path += "?days=" + strconv.Itoa(days)
	}
	var out usecase.TrendsOutput
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token. The client keeps using its own token afterwards.
func (c *Client) Login(ctx context.Context, username, password string) (*usecase.TokenOutput, error) {
	form := url.Values{"username": {username}, "password": {password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var out usecase.TokenOutput
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		jsonBody, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	c.setHeaders(req)
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		json.Unmarshal(raw, apiErr)
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
