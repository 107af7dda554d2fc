package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moonmap/refcomb/app/api"
	"github.com/moonmap/refcomb/app/cfg"
	"github.com/moonmap/refcomb/app/fetch"
	"github.com/moonmap/refcomb/app/store"
	"github.com/moonmap/refcomb/app/target"
	"github.com/moonmap/refcomb/app/update"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting Ref Comb", "version", appCfg.Version)

	// Load fetcher target configurations
	targetCache := target.NewCache(appCfg.TargetsDir)
	if err := targetCache.Run(); err != nil {
		slog.Error("Failed to load target configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Target configurations loaded", "count", targetCache.GetTargetCount())

	recordStore := store.New(appCfg.StorePath)

	// Wire the update pipeline
	dispatcher := fetch.NewDispatcher(appCfg.UserAgent, nil)
	describer := fetch.NewDescriber(appCfg.UserAgent)
	updater := update.NewUpdater(recordStore, targetCache, dispatcher, describer, update.Options{
		Delay:              time.Duration(appCfg.FetchDelay) * time.Millisecond,
		EnrichDescriptions: appCfg.EnrichDescriptions,
	})

	// One-shot mode: run the update procedure and exit. Periodic refresh is
	// an external invoker's job (cron, systemd timer).
	if appCfg.RunUpdate {
		if err := updater.Run(context.Background()); err != nil {
			slog.Error("Update failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Initialize HTTP server
	handler := api.NewHandler(recordStore, updater)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:        ":" + appCfg.Port,
		Handler:     server,
		ReadTimeout: 30 * time.Second,
		// The update endpoint blocks for the full network-bound fetch cycle.
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
