package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/prospectplus-agent/internal/entity"
	"github.com/xavierca1/prospectplus-agent/internal/usecase"
)

type ProspectHandler struct {
	Prospects *usecase.ProspectService
	Outreach  *usecase.OutreachService
	Log       *zap.Logger
}

func NewProspectHandler(prospects *usecase.ProspectService, outreach *usecase.OutreachService, log *zap.Logger) *ProspectHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProspectHandler{Prospects: prospects, Outreach: outreach, Log: log}
}

// Create (POST /api/prospects)
func (h *ProspectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateProspectInput
	if !decodeJSON(w, r, &input) {
		return
	}

	p, err := h.Prospects.Create(r.Context(), input)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// List (GET /api/prospects)
func (h *ProspectHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, _, err := intQuery(r, "skip", 0)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	limit, present, err := intQuery(r, "limit", 0)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if present && limit == 0 {
		// an explicit zero must not fall back to the default page size
		limit = -1
	}

	q := r.URL.Query()
	out, err := h.Prospects.List(r.Context(), usecase.ListProspectsInput{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Industry: q.Get("industry"),
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if out == nil {
		out = []*entity.Prospect{}
	}
	writeJSON(w, http.StatusOK, out)
}

// Get (GET /api/prospects/{id})
func (h *ProspectHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Prospects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update (PUT /api/prospects/{id})
func (h *ProspectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateProspectInput
	if !decodeJSON(w, r, &input) {
		return
	}

	p, err := h.Prospects.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete (DELETE /api/prospects/{id})
func (h *ProspectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Prospects.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Analyze (POST /api/prospects/{id}/analyze)
func (h *ProspectHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	out, err := h.Prospects.Reanalyze(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// SendOutreach (POST /api/prospects/{id}/outreach)
func (h *ProspectHandler) SendOutreach(w http.ResponseWriter, r *http.Request) {
	if h.Outreach == nil || !h.Outreach.Enabled() {
		writeErrorResponse(w, http.StatusServiceUnavailable, usecase.CodeOutreachUnavailable, "Outreach email is not configured")
		return
	}

	var input usecase.OutreachInput
	if !decodeJSON(w, r, &input) {
		return
	}

	interaction, err := h.Outreach.Send(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, interaction)
}
