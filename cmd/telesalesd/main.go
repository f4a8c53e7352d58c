// Command telesalesd runs the scheduled telesales pipeline plus a small
// ops HTTP server for health checks and manual triggers.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/Kaosethi/telesalesautomation/internal/api"
	"github.com/Kaosethi/telesalesautomation/internal/bootstrap"
	"github.com/Kaosethi/telesalesautomation/internal/config"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := bootstrap.BuildDeps(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to wire dependencies", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	server := api.NewServer(deps, logger)

	// Daily schedule. Cron fires in the app timezone so "0 9 * * *"
	// means 09:00 Bangkok regardless of host TZ.
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("Invalid timezone, using local", "timezone", cfg.Timezone, "error", err)
		loc = time.Local
	}
	sched := cron.New(cron.WithLocation(loc))
	if _, err := sched.AddFunc(cfg.CronSpec, func() {
		server.RunScheduled(context.Background())
	}); err != nil {
		logger.Error("Invalid cron spec", "spec", cfg.CronSpec, "error", err)
		os.Exit(1)
	}
	sched.Start()
	logger.Info("Scheduler started", "spec", cfg.CronSpec, "timezone", loc.String())

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort),
		Handler:      api.NewRouter(server, cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cronCtx := sched.Stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	select {
	case <-cronCtx.Done():
	case <-shutdownCtx.Done():
		logger.Warn("Timed out waiting for in-flight scheduled run")
	}
	logger.Info("Stopped")
}
