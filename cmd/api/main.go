package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/labdash/internal/config"
	"github.com/hamed0406/labdash/internal/domain"
	"github.com/hamed0406/labdash/internal/httpapi"
	"github.com/hamed0406/labdash/internal/logging"
	"github.com/hamed0406/labdash/internal/probe"
	"github.com/hamed0406/labdash/internal/repo/memory"
	"github.com/hamed0406/labdash/internal/scheduler"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("config_invalid", zap.Error(err))
	}

	dash, err := config.LoadDashboard(cfg.DashboardFile)
	if err != nil {
		logger.Fatal("dashboard_load_error", zap.String("path", cfg.DashboardFile), zap.Error(err))
	}
	for _, w := range dash.Warnings() {
		logger.Warn("dashboard_warning", zap.String("detail", w))
	}
	logger.Info("dashboard_loaded",
		zap.String("path", cfg.DashboardFile),
		zap.Int("services", len(dash.Services)),
		zap.Int("websites", len(dash.Websites)),
	)

	store := memory.New()
	checker := probe.NewHTTPChecker(cfg.ProbeTimeout, cfg.InsecureTLS)
	schedule := scheduler.NewSchedule(logger, cfg.CheckInterval,
		scheduler.NewAggregator(logger, domain.GroupServices, dash.Services, checker, store, cfg.ProbeTimeout),
		scheduler.NewAggregator(logger, domain.GroupWebsites, dash.Websites, checker, store, cfg.ProbeTimeout),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := schedule.Start(ctx); err != nil {
		logger.Fatal("schedule_start_error", zap.Error(err))
	}
	defer schedule.Stop()

	api := httpapi.NewServer(logger, dash, store, store, schedule)
	api.Meta = httpapi.Meta{
		StatusPageURL:   cfg.StatusPageURL,
		CheckIntervalMS: cfg.CheckInterval.Milliseconds(),
	}
	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: api.Router(httpapi.Options{
			AllowedOrigins: cfg.AllowedOrigin,
			RPM:            cfg.APIRPM,
			Burst:          cfg.APIBurst,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("api_shutdown_error", zap.Error(err))
		}
	}()

	logger.Info("api_listen",
		zap.String("addr", cfg.Addr),
		zap.Duration("interval", cfg.CheckInterval),
		zap.Duration("probe_timeout", cfg.ProbeTimeout),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("api_serve_error", zap.Error(err))
	}
}
