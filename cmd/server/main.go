package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/bardbox/bardbox/config"
	"github.com/bardbox/bardbox/internal/asset"
	"github.com/bardbox/bardbox/internal/backup"
	"github.com/bardbox/bardbox/internal/library"
	"github.com/bardbox/bardbox/internal/playback"
	"github.com/bardbox/bardbox/internal/registry"
	"github.com/bardbox/bardbox/internal/server"
)

func main() {
	port := flag.String("port", "", "Server port (overrides config)")
	configPath := flag.String("config", "./config/config.yaml", "Config file path")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *port == "" {
		*port = cfg.Server.Port
	}

	// Setup logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Storage.DataDir, 0755); err != nil {
		slog.Error("Failed to create data directory", "error", err)
		os.Exit(1)
	}

	musicStore, err := asset.NewStore(cfg.Storage.MusicDir, asset.MusicExtensions)
	if err != nil {
		slog.Error("Failed to create music store", "error", err)
		os.Exit(1)
	}

	iconStore, err := asset.NewStore(cfg.Storage.IconDir, asset.IconExtensions)
	if err != nil {
		slog.Error("Failed to create icon store", "error", err)
		os.Exit(1)
	}

	// The soundboard cannot function without audio output
	engine, err := playback.NewOtoEngine(cfg.Playback.SampleRate)
	if err != nil {
		slog.Error("Failed to initialize audio output", "error", err)
		os.Exit(1)
	}

	// Creating the default mapping document must succeed before serving
	reg := registry.New(cfg.MappingPath())
	if _, err := reg.Load(); err != nil {
		slog.Error("Failed to initialize mapping document", "error", err)
		os.Exit(1)
	}

	controller := playback.NewController(engine, musicStore)
	lib := library.New(reg, musicStore, iconStore, controller)

	var backupService *backup.Service
	if cfg.Backup.Enabled {
		uploader, err := backup.NewGCSUploader(
			context.Background(),
			cfg.Backup.Bucket,
			cfg.Backup.ObjectPrefix,
			cfg.Backup.CredentialsFile,
		)
		if err != nil {
			slog.Error("Failed to create backup uploader", "error", err)
			os.Exit(1)
		}
		defer uploader.Close()
		backupService = backup.NewService(uploader, cfg.MappingPath(), musicStore, iconStore)
	}

	srv := server.New(cfg, lib, controller, backupService)

	slog.Info("Starting BardBox soundboard server", "port", *port)
	if err := srv.Start(*port); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
