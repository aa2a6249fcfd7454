package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carbonchain/portal-api/internal/backend"
	"github.com/carbonchain/portal-api/internal/config"
	"github.com/carbonchain/portal-api/internal/http/handler"
	"github.com/carbonchain/portal-api/internal/http/middleware"
	"github.com/carbonchain/portal-api/internal/http/router"
	"github.com/carbonchain/portal-api/internal/jobs"
	"github.com/carbonchain/portal-api/internal/logger"
	"github.com/carbonchain/portal-api/internal/session"
	"github.com/carbonchain/portal-api/internal/state"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	if cfg.Session.SigningSecret == "" {
		return fmt.Errorf("session signing secret is not configured (SESSION_SIGNING_SECRET)")
	}

	// Backend client and state controller
	backendClient := backend.NewClient(&cfg.Backend, log)
	controller := state.NewController(backendClient, log)

	// Advisory startup probe: never fails startup, never gates requests
	probeCtx, cancelProbe := context.WithTimeout(ctx, 10*time.Second)
	controller.ProbeBackend(probeCtx)
	cancelProbe()
	log.Info("Backend probe completed",
		zap.String("base_url", cfg.Backend.BaseURL),
		zap.Bool("reachable", controller.BackendReachable()),
	)

	// Session store and cookie codec
	store := session.NewStore(cfg.Session.TTLDuration(), log)
	codec := session.NewTokenCodec(cfg.Session.SigningSecret, cfg.Session.TTLDuration())

	// Middleware
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	authHandler := handler.NewAuthHandler(controller, store, codec, &cfg.Session, log)
	stateHandler := handler.NewStateHandler(controller, log)
	productHandler := handler.NewProductHandler(controller, log)
	nodeHandler := handler.NewNodeHandler(controller, log)
	analysisHandler := handler.NewAnalysisHandler(controller, log)
	metaHandler := handler.NewMetaHandler(controller, &cfg.App)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		store,
		codec,
		rateLimiter,
		authHandler,
		stateHandler,
		productHandler,
		nodeHandler,
		analysisHandler,
		metaHandler,
	)

	// Background scheduler: periodic expired-session sweep
	scheduler := jobs.NewScheduler(log)
	sweepJob := jobs.NewSessionSweepJob(store, log)
	if err := scheduler.AddJob(jobs.SessionSweepJobName, cfg.Session.SweepSchedule, sweepJob.Run); err != nil {
		log.Error("Failed to register session sweep job", zap.Error(err))
	} else {
		scheduler.Start()
		log.Info("Scheduler started with session sweep job",
			zap.String("cron_expr", cfg.Session.SweepSchedule),
			zap.Duration("session_ttl", cfg.Session.TTLDuration()),
		)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler; running sweeps complete
		stopCtx := scheduler.Stop()
		<-stopCtx.Done()
		log.Info("Scheduler stopped")

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
