package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/signalsfoundry/coverage-planner/internal/config"
	"github.com/signalsfoundry/coverage-planner/internal/datastore"
	"github.com/signalsfoundry/coverage-planner/internal/httpapi"
	"github.com/signalsfoundry/coverage-planner/internal/logging"
	"github.com/signalsfoundry/coverage-planner/internal/observability"
)

func main() {
	cfg := config.Load()
	log := logging.NewFromEnv()
	ctx := context.Background()

	tracingCfg := observability.TracingConfigFromEnv()
	tracerShutdown, err := observability.InitTracing(ctx, tracingCfg, log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), tracerShutdown, log)

	metrics, err := observability.NewPlannerCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}

	store, err := datastore.Open(cfg.DBPath)
	if err != nil {
		log.Error(ctx, "failed to open datastore", logging.String("path", cfg.DBPath), logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	api := httpapi.New(httpapi.Options{
		Store:        store,
		Metrics:      metrics,
		Log:          log,
		QueryTimeout: cfg.QueryTimeout,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: api,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logging.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server exited", logging.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-stopCtx.Done()

	log.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "shutdown did not finish cleanly", logging.String("error", err.Error()))
	}
}
