// Package http exposes the ledger and the analytics views as a JSON API.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"moneypilot/internal/log"
	"moneypilot/internal/middleware/ratelimit"
	"moneypilot/internal/middleware/security"
	"moneypilot/internal/middleware/trace"
	"moneypilot/internal/services"
)

// Config holds the listener and middleware settings.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	TrustedProxies     []string
	MaxBodyBytes       int64
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
}

// Services are the collaborators the handlers call into.
type Services struct {
	Ledger   *services.Ledger
	Insights *services.Insights
	Reports  *services.Reports
	// Ping backs /readyz; nil means always ready.
	Ping func(context.Context) error
}

type Server struct {
	http.Server
	ledger   *services.Ledger
	insights *services.Insights
	reports  *services.Reports
	ping     func(context.Context) error
	logger   *log.Logger
	maxBody  int64

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(cfg Config, svc Services, logger *log.Logger) (*Server, error) {
	if svc.Ledger == nil || svc.Insights == nil || svc.Reports == nil {
		return nil, errors.New("ledger, insights and reports are required")
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}

	detector := security.NewDetector()
	for _, cidr := range cfg.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			return nil, fmt.Errorf("trusted proxies: %w", err)
		}
	}

	s := &Server{
		ledger:   svc.Ledger,
		insights: svc.Insights,
		reports:  svc.Reports,
		ping:     svc.Ping,
		logger:   logger.WithComponent(log.ComponentHTTP),
		maxBody:  cfg.MaxBodyBytes,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute}),
		detector: detector,
	}
	s.tracer = trace.NewMiddleware(detector.ExtractClientIP, logger)

	mux := http.NewServeMux()
	s.routes(mux)

	var handler http.Handler = mux
	handler = s.limiter.Middleware(detector.ExtractClientIP, ratelimit.Mutating, s.onRateLimit)(handler)
	handler = detector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Slog().Handler(), slog.LevelError),
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/categories/detect", s.handleDetectCategory)
	mux.HandleFunc("GET /api/categories/stats", s.handleCategoryStats)

	mux.HandleFunc("GET /api/transactions/groups", s.handleTransactionGroups)
	mux.HandleFunc("GET /api/transactions/duplicates", s.handleDuplicates)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("POST /api/budgets", s.handleCreateBudget)
	mux.HandleFunc("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	mux.HandleFunc("GET /api/vehicle", s.handleVehicle)
	mux.HandleFunc("PUT /api/vehicle/profile", s.handleSaveProfile)
	mux.HandleFunc("POST /api/vehicle/fuel", s.handleCreateFuelLog)
	mux.HandleFunc("PUT /api/vehicle/fuel/{id}", s.handleUpdateFuelLog)
	mux.HandleFunc("DELETE /api/vehicle/fuel/{id}", s.handleDeleteFuelLog)
	mux.HandleFunc("POST /api/vehicle/maintenance", s.handleCreateMaintenance)
	mux.HandleFunc("DELETE /api/vehicle/maintenance/{id}", s.handleDeleteMaintenance)
	mux.HandleFunc("POST /api/vehicle/expenses", s.handleCreateAutoExpense)
	mux.HandleFunc("DELETE /api/vehicle/expenses/{id}", s.handleDeleteAutoExpense)

	mux.HandleFunc("POST /api/reminders", s.handleCreateReminder)
	mux.HandleFunc("POST /api/reminders/{id}/complete", s.handleCompleteReminder)
	mux.HandleFunc("DELETE /api/reminders/{id}", s.handleDeleteReminder)

	mux.HandleFunc("POST /api/reports/export", s.handleExportReport)
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	respond(w, r, TooManyRequestsError())
}

// Stats is a point-in-time view of the middleware counters.
type Stats struct {
	Trace     trace.Metrics
	RateLimit ratelimit.Metrics
	Security  security.DetectionMetrics
}

func (s *Server) Stats() Stats {
	return Stats{
		Trace:     s.tracer.GetMetrics(),
		RateLimit: s.limiter.GetMetrics(),
		Security:  s.detector.GetMetrics(),
	}
}

// Shutdown gracefully shuts down the server and the limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
