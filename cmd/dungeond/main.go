package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/webaverse-studios/raid-party-app-sub002/internal/config"
	"github.com/webaverse-studios/raid-party-app-sub002/internal/logger"
	"github.com/webaverse-studios/raid-party-app-sub002/internal/render"
	"github.com/webaverse-studios/raid-party-app-sub002/internal/stream"
)

func main() {
	configFile := flag.String("config", "data/dungeon.yaml", "Path to dungeon config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	seed := flag.String("seed", "", "Starting chunk seed (overrides config)")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, err := logger.LoadConfig(*loggingConfig)
	if err != nil {
		log.Printf("Failed to load logging config, using defaults: %v", err)
	}
	closer, err := logger.Initialize(logConfig)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer closer.Close()

	logger.Info("Starting dungeon stream server")

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Warning("Failed to load dungeon config, using defaults", "path", *configFile, "error", err)
	}
	if *seed != "" {
		cfg.Generation.Seed = *seed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := cfg.Catalog.LoadCatalog(ctx)
	if err != nil {
		log.Fatalf("Failed to load room catalog: %v", err)
	}
	logger.Info("Room catalog loaded", "path", cfg.Catalog.Path, "templates", catalog.Len())

	switch {
	case len(cfg.Server.WebSocket.AllowedOrigins) == 0:
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	case len(cfg.Server.WebSocket.AllowedOrigins) == 1 && cfg.Server.WebSocket.AllowedOrigins[0] == "*":
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	default:
		logger.Info("WebSocket CORS policy", "allowed_origins", cfg.Server.WebSocket.AllowedOrigins)
	}

	hub := render.NewHub(render.Options{
		OriginAllowed:  cfg.Server.WebSocket.IsOriginAllowed,
		MaxMessageSize: cfg.Server.WebSocket.MaxMessageSize,
	})
	defer hub.Close()

	ctrl := stream.NewController(cfg.Generation.ToDungeon(catalog), cfg.Stream.ToStream(), hub, hub)
	if err := ctrl.Start(cfg.Generation.Seed); err != nil {
		log.Fatalf("Failed to generate starting chunk: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("WebSocket server error: %v", err)
		}
	}()

	logger.Info("Dungeon server running", "address", cfg.Server.Address, "tick", cfg.Stream.TickInterval().String())
	logger.Info("Press Ctrl+C to shutdown")

	ctrl.Run(ctx, cfg.Stream.TickInterval(), hub)

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warning("HTTP shutdown incomplete", "error", err)
	}
	logger.Info("Server stopped")
}
