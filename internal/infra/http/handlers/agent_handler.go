package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/prospectplus-agent/internal/usecase"
)

type AgentHandler struct {
	Agent *usecase.AgentService
	Log   *zap.Logger
}

func NewAgentHandler(agent *usecase.AgentService, log *zap.Logger) *AgentHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AgentHandler{Agent: agent, Log: log}
}

// Chat (POST /api/agent/chat)
func (h *AgentHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var input usecase.ChatInput
	if !decodeJSON(w, r, &input) {
		return
	}

	reply, err := h.Agent.Chat(r.Context(), input)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// Status (GET /api/agent/status)
func (h *AgentHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Agent.Status())
}
