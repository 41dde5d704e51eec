package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/bridgetunes-event-wheel/api/routes"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/bootstrap"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/config"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/handlers"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/metrics"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/middleware"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/services"
	"github.com/robfig/cron/v3"
	"golang.org/x/exp/slog"
)

// Idle spin buckets are dropped after this long
const limiterTTL = 10 * time.Minute

func main() {
	config.LoadDotEnv()
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exiting")
}

func run() error {
	cfg, err := config.Load(config.ConfigPath(), "./config")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	bootstrap.SetupLogger(cfg)

	if err := metrics.Register(nil); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	ctx := context.Background()
	repos, err := bootstrap.OpenRepositories(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}
	defer repos.Close(context.Background())

	// A bad prize table is a configuration defect, so refuse to start
	svc, err := bootstrap.NewServices(cfg, repos)
	if err != nil {
		return err
	}

	handlerDeps := routes.HandlerDependencies{
		AuthHandler:  handlers.NewAuthHandler(svc.Auth),
		UserHandler:  handlers.NewUserHandler(svc.User),
		SpinHandler:  handlers.NewSpinHandler(svc.Spin),
		EventHandler: handlers.NewEventHandler(svc.Event),
		Tokens:       svc.Tokens,
		SpinLimiter:  middleware.NewRateLimiter(cfg.Wheel.SpinRatePerSecond, cfg.Wheel.SpinBurst, limiterTTL),
	}
	router := routes.SetupRouter(cfg, handlerDeps)

	scheduler, err := scheduleReconciliation(cfg, svc.Reconciliation)
	if err != nil {
		return fmt.Errorf("failed to schedule reconciliation %q: %w", cfg.Reconciliation.Schedule, err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	slog.Info("Server starting", "port", cfg.Server.Port, "storage", cfg.Storage.Driver, "spinCost", cfg.Wheel.SpinCost)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// scheduleReconciliation runs a report-only reconciliation on the configured
// schedule. Fixes are applied from the migrate CLI.
func scheduleReconciliation(cfg *config.Config, reconciler services.ReconciliationService) (*cron.Cron, error) {
	if !cfg.Reconciliation.Enabled {
		return nil, nil
	}

	scheduler := cron.New()
	_, err := scheduler.AddFunc(cfg.Reconciliation.Schedule, func() {
		report, err := reconciler.Run(context.Background(), false)
		if err != nil {
			slog.Error("Scheduled reconciliation failed", "error", err)
			return
		}
		slog.Info("Scheduled reconciliation finished",
			"scanned", report.Scanned, "skipped", report.Skipped, "discrepancies", len(report.Discrepancies))
	})
	if err != nil {
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}
