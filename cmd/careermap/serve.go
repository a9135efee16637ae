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

	"github.com/spf13/cobra"

	"github.com/dgallion1/careermap/internal/api"
	"github.com/dgallion1/careermap/internal/config"
	"github.com/dgallion1/careermap/internal/metrics"
	"github.com/dgallion1/careermap/internal/pathstore"
	"github.com/dgallion1/careermap/internal/pipeline"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), config.Load())
		},
	}
}

func runServe(ctx context.Context, cfg config.Config) error {
	log, closer := newLogger(logOptions{Level: cfg.LogLevel, File: cfg.LogFile}, os.Stdout)
	defer closer.Close()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize clients.
	var (
		ps        *pathstore.Client
		publisher *pathstore.Publisher
	)
	if cfg.PublishEnabled() {
		ps = pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
		defer ps.Close()
		publisher = pathstore.NewPublisher(ps, log, 8)
	}
	m := metrics.NewCollector("careermap")

	// Initialize pipeline.
	orch, err := pipeline.NewOrchestrator(cfg, publisher, m, log)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, m, log, cfg)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown. The pipeline stops only after in-flight handlers
	// have drained.
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}
	}()

	log.Info("starting careermap",
		"port", cfg.Port,
		"profile", orch.DefaultProfile().Name,
		"workers", cfg.WorkerCount,
		"publish", cfg.PublishEnabled(),
	)
	err = httpServer.ListenAndServe()
	stop()
	<-drained
	orch.Stop()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		return err
	}
	return nil
}
