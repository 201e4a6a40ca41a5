package http

import (
	"context"
	"net/http"
	"time"

	"moneypilot/internal/categories"
	"moneypilot/internal/core"
)

const (
	defaultDuplicateWindow = 3
	readyTimeout           = 2 * time.Second
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type readyResponse struct {
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
	Requests      int64  `json:"requests"`
	ServerErrors  int64  `json:"serverErrors"`
	RateLimited   int64  `json:"rateLimited"`
	Suspicious    int64  `json:"suspicious"`
	ReportsExport bool   `json:"reportsExport"`
}

// handleReady pings the store; the middleware counters ride along.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	stats := s.Stats()
	body := readyResponse{
		Status:        "ready",
		Requests:      stats.Trace.TotalRequests,
		ServerErrors:  stats.Trace.ServerErrors,
		RateLimited:   stats.RateLimit.TotalHits,
		Suspicious:    stats.Security.SuspiciousRequests,
		ReportsExport: s.reports.Enabled(),
	}
	if s.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := s.ping(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "Readiness check failed", "error", err)
			body.Status = "unavailable"
			body.Error = "store unavailable"
			respond(w, r, NewJSONResponse().Status(http.StatusServiceUnavailable).Data(body))
			return
		}
	}
	respond(w, r, OK(body))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.insights.Dashboard(r.Context())
	if err != nil {
		fail(w, r, "dashboard", err)
		return
	}
	respond(w, r, OK(d))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	respond(w, r, OK(map[string][]categories.Category{"categories": s.insights.Categories()}))
}

type detectResponse struct {
	Title     string                `json:"title"`
	Detection *categories.Detection `json:"detection"`
}

func (s *Server) handleDetectCategory(w http.ResponseWriter, r *http.Request) {
	title := sanitizeInput(r.URL.Query().Get("title"))
	if title == "" {
		fail(w, r, "detect", badRequest("query parameter title is required"))
		return
	}
	respond(w, r, OK(detectResponse{Title: title, Detection: s.insights.Detect(title)}))
}

func (s *Server) handleCategoryStats(w http.ResponseWriter, r *http.Request) {
	typ := core.TransactionType(r.URL.Query().Get("type"))
	if typ == "" {
		typ = core.Expense
	}
	top, err := queryInt(r, "top", 0)
	if err != nil {
		fail(w, r, "category_stats", err)
		return
	}
	stats, err := s.insights.CategoryStats(r.Context(), typ, top)
	if err != nil {
		fail(w, r, "category_stats", err)
		return
	}
	respond(w, r, OK(stats))
}

func (s *Server) handleTransactionGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.insights.TransactionGroups(r.Context())
	if err != nil {
		fail(w, r, "transaction_groups", err)
		return
	}
	respond(w, r, OK(map[string]any{"groups": groups}))
}

func (s *Server) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	window, err := queryInt(r, "window", defaultDuplicateWindow)
	if err != nil {
		fail(w, r, "duplicates", err)
		return
	}
	pairs, err := s.insights.Duplicates(r.Context(), window)
	if err != nil {
		fail(w, r, "duplicates", err)
		return
	}
	respond(w, r, OK(map[string]any{"window": window, "pairs": pairs}))
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	ref, err := s.reports.Export(r.Context())
	if err != nil {
		fail(w, r, "export", err)
		return
	}
	respond(w, r, OK(map[string]string{"ref": ref}))
}
