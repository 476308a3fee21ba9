package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/prospectplus-agent/internal/usecase"
)

type AnalyticsHandler struct {
	Analytics *usecase.AnalyticsService
	Log       *zap.Logger
}

func NewAnalyticsHandler(analytics *usecase.AnalyticsService, log *zap.Logger) *AnalyticsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalyticsHandler{Analytics: analytics, Log: log}
}

// Overview (GET /api/analytics/overview?start_date=&end_date=)
func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.Analytics.Overview(r.Context(), usecase.OverviewInput{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Trends (GET /api/analytics/trends?days=)
func (h *AnalyticsHandler) Trends(w http.ResponseWriter, r *http.Request) {
	days, present, err := intQuery(r, "days", 0)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if present && days == 0 {
		days = -1
	}

	out, err := h.Analytics.Trends(r.Context(), days)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// TopIndustries (GET /api/analytics/top-industries?limit=)
func (h *AnalyticsHandler) TopIndustries(w http.ResponseWriter, r *http.Request) {
	limit, present, err := intQuery(r, "limit", 0)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if present && limit == 0 {
		limit = -1
	}

	out, err := h.Analytics.TopIndustries(r.Context(), limit)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
