package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/creamcroissant/ansine/internal/api"
	"github.com/creamcroissant/ansine/internal/bootstrap"
	"github.com/creamcroissant/ansine/internal/cache"
	"github.com/creamcroissant/ansine/internal/config"
	"github.com/creamcroissant/ansine/internal/job"
	"github.com/creamcroissant/ansine/internal/metrics"
	"github.com/creamcroissant/ansine/internal/nixos"
	"github.com/creamcroissant/ansine/internal/support/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Level:     cfg.Log.SlogLevel(),
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
	})

	store := metrics.NewStore()
	sampler := metrics.NewSystemSampler()

	var resolver metrics.SystemResolver
	if cfg.NixosCurrentSystem {
		cacheStore := cache.NewStore(cache.Options{DefaultTTL: cfg.Refresh()})
		resolver = nixos.NewResolver(cacheStore, nixos.WithTTL(cfg.Refresh()))
	}

	refresher := metrics.NewRefresher(sampler, store, resolver, logger)

	// First tick runs before the listener comes up so the very first request
	// already sees a real snapshot.
	if err := refresher.Run(ctx); err != nil {
		return err
	}

	// cfg.Refresh() rather than the raw interval, so a non-positive value
	// falls back the same way everywhere
	refresh := cfg.Refresh()

	scheduler := job.NewScheduler(logger)
	if _, err := scheduler.Register(fmt.Sprintf("@every %s", refresh), refresher); err != nil {
		return fmt.Errorf("register refresh job: %w", err)
	}
	scheduler.Start()

	handler, err := api.NewRouter(api.Options{
		Logger:          logger,
		Store:           store,
		Services:        cfg.Services,
		RefreshInterval: int(refresh.Seconds()),
		Telemetry:       cfg.Telemetry.Enabled,
		AssetsDir:       cfg.UI.Dir,
	})
	if err != nil {
		return err
	}

	srv := bootstrap.NewHTTPServer(cfg.Addr(), handler)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting ansine", "addr", cfg.Addr(), "refresh_interval", refresh, "services", len(cfg.Services))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		scheduler.Stop()
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}

	// lets the in-flight tick finish
	<-scheduler.Stop().Done()
	return nil
}
