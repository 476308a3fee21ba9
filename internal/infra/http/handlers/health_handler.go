package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	DB          Pinger
	Version     string
	Environment string
	Provider    string
	SMTP        bool
	StartTime   time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Environment  string            `json:"environment"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(db Pinger, version, environment, provider string, smtp bool) *HealthHandler {
	return &HealthHandler{
		DB:          db,
		Version:     version,
		Environment: environment,
		Provider:    provider,
		SMTP:        smtp,
		StartTime:   time.Now(),
	}
}

// Handle (GET /health) only reports degraded when the database is unreachable.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)
	status := "healthy"

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			deps["database"] = fmt.Sprintf("unhealthy: %v", err)
			status = "degraded"
		} else {
			deps["database"] = "healthy"
		}
	} else {
		deps["database"] = "not configured"
		status = "degraded"
	}

	if h.Provider != "" && h.Provider != "heuristic" {
		deps["llm"] = "configured (" + h.Provider + ")"
	} else {
		deps["llm"] = "not configured (heuristic)"
	}

	if h.SMTP {
		deps["smtp"] = "configured"
	} else {
		deps["smtp"] = "not configured"
	}

	response := HealthResponse{
		Status:       status,
		Version:      h.Version,
		Environment:  h.Environment,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	if status == "degraded" {
		writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	writeJSON(w, http.StatusOK, response)
}
