package handlers

import "net/http"

type InfoHandler struct {
	Name        string
	Version     string
	Environment string
}

type InfoResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Environment string            `json:"environment"`
	Endpoints   map[string]string `json:"endpoints"`
}

func NewInfoHandler(name, version, environment string) *InfoHandler {
	return &InfoHandler{Name: name, Version: version, Environment: environment}
}

// Handle (GET /info, GET /api/info)
func (h *InfoHandler) Handle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		Name:        h.Name,
		Version:     h.Version,
		Description: "AI-assisted prospect management and analytics",
		Environment: h.Environment,
		Endpoints: map[string]string{
			"prospects": "/api/prospects",
			"analytics": "/api/analytics",
			"agent":     "/api/agent",
			"auth":      "/api/auth",
			"health":    "/health",
			"metrics":   "/metrics",
		},
	})
}
