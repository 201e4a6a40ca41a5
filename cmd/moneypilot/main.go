package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"moneypilot/internal/cache"
	"moneypilot/internal/categories"
	"moneypilot/internal/cli"
	"moneypilot/internal/config"
	apphttp "moneypilot/internal/http"
	"moneypilot/internal/log"
	"moneypilot/internal/services"
	"moneypilot/internal/sheets"
	gsheet "moneypilot/internal/sheets/google"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentApp)
	loc := cli.MustLocation(logger, cfg)

	ctx := context.Background()
	store := cli.OpenStore(ctx, logger, cfg)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close store", log.FieldError, err)
		}
	}()

	opts := []services.Option{services.WithLocation(loc)}
	matcher := categories.NewMatcher(categories.Default(), categories.DefaultWeights())

	insights := services.NewInsights(store.Store, matcher, services.InsightsConfig{
		Locale:              cfg.Locale,
		TopCategories:       cfg.TopCategories,
		MetricsWindowMonths: cfg.MetricsWindowMonths,
		ForecastMonths:      cfg.ForecastMonths,
		CacheSize:           cfg.CacheSize,
		CacheTTL:            cfg.CacheTTL,
	}, logger, opts...)
	ledger := services.NewLedger(store.Store, matcher, insights, logger, opts...)

	writer, err := reportWriter(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets report writer", log.FieldError, err)
		os.Exit(1)
	}
	reports := services.NewReports(insights, writer, logger, opts...)

	caches := cache.NewManager(logger.WithComponent(log.ComponentCache).Slog())
	caches.Register(insights.Caches()...)
	caches.StartCleanup(cfg.CacheTTL)

	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:               net.JoinHostPort("", cfg.Port),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, apphttp.Services{
		Ledger:   ledger,
		Insights: insights,
		Reports:  reports,
		Ping:     store.Ping,
	}, logger)
	if err != nil {
		logger.Error("Failed to configure HTTP server", log.FieldError, err)
		os.Exit(1)
	}
	srv.MaxHeaderBytes = 1 << 16

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		caches.Stop()
	})

	logger.Info("Starting moneypilot server",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"report_export", reports.Enabled())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}

// reportWriter returns nil when no spreadsheet is configured; the export
// endpoint then answers 503.
func reportWriter(ctx context.Context, cfg *config.Config, logger *log.Logger) (sheets.ReportWriter, error) {
	if !cfg.ReportExportEnabled() {
		logger.Info("Report export disabled - no REPORT_SPREADSHEET_ID provided")
		return nil, nil
	}
	client, err := gsheet.New(ctx, gsheet.Credentials{
		JSON: cfg.GoogleServiceAccountJSON,
		File: cfg.GoogleServiceAccountFile,
	}, cfg.ReportSpreadsheetID, cfg.ReportSheetName, logger.WithComponent(log.ComponentSheets).Slog())
	if err != nil {
		return nil, err
	}
	logger.Info("Report export enabled", "spreadsheet_id", cfg.ReportSpreadsheetID, "sheet", cfg.ReportSheetName)
	return client, nil
}
