package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/scizon/internal/dashboard"
	"github.com/JonMunkholm/scizon/internal/logging"
)

// StatsResponse is the dashboard data for API clients.
type StatsResponse struct {
	Cards       []dashboard.StatCard `json:"cards"`
	Sales       dashboard.Series     `json:"sales"`
	ActiveUsers dashboard.Series     `json:"active_users"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, StatsResponse{
		Cards:       dashboard.Stats(),
		Sales:       dashboard.MonthlySales(),
		ActiveUsers: dashboard.WeeklyActiveUsers(),
	})
}

// handleChart serves one chart as a standalone HTML document for an iframe.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	html, err := s.charts.Render(name)
	if err != nil {
		logging.FromContext(r.Context()).Warn("chart not rendered", "chart", name, "error", err)
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	fmt.Fprint(w, html)
}

// handleHealth reports liveness with the session and limiter counts.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":   "ok",
		"sessions": s.store.Len(),
	}
	if limiter := s.importer.Limiter(); limiter != nil {
		resp["imports"] = limiter.Status()
	}
	writeJSON(w, resp)
}
