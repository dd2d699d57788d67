package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetmap.kanpurcity.org/internal/app"
	"fleetmap.kanpurcity.org/internal/config"
	"fleetmap.kanpurcity.org/internal/fleet"
	"fleetmap.kanpurcity.org/internal/logging"
	"fleetmap.kanpurcity.org/internal/restapi"
	"fleetmap.kanpurcity.org/internal/stream"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	flag.Parse()

	logger := logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	manager := fleet.NewManager(fleet.Config{
		TpappsURL:        cfg.Sources.TpappsURL,
		DikshankURL:      cfg.Sources.DikshankURL,
		DikshankRelayURL: cfg.Sources.DikshankRelayURL,
		PollInterval:     cfg.PollInterval(),
		RequestTimeout:   cfg.RequestTimeout(),
	}, logger)

	hub := stream.NewHub(logger, func() any { return manager.Snapshot() }, nil)
	manager.SetUpdateHook(hub.Broadcast)

	application := &app.Application{
		Config: cfg,
		Logger: logger,
		Fleet:  manager,
		Stream: hub,
	}

	api := restapi.NewRestAPI(application)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	manager.Start()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting server", "addr", srv.Addr, "env", cfg.Server.Env)

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			manager.Shutdown()
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	manager.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
