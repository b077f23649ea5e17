package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/gridbinder-lab/project-gridbinder/internal/core/config"
	"github.com/gridbinder-lab/project-gridbinder/internal/core/storage"
	"github.com/gridbinder-lab/project-gridbinder/internal/core/storage/memory"
	"github.com/gridbinder-lab/project-gridbinder/internal/core/storage/postgres"
	"github.com/gridbinder-lab/project-gridbinder/internal/grid"
	"github.com/gridbinder-lab/project-gridbinder/internal/migrations"
	"github.com/gridbinder-lab/project-gridbinder/internal/server"
)

func main() {
	configPath := flag.String("config", "gridbinder.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"datasource", cfg.DataSource.Type,
		"default_page_size", cfg.Grid.DefaultPageSize,
		"max_page_size", cfg.Grid.MaxPageSize)

	// 2. Initialize Storage
	store, health, closeStore, err := openStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize data source", "type", cfg.DataSource.Type, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// 3. Initialize Grid (query API)
	resources, err := grid.DirectoryResources(store)
	if err != nil {
		slog.Error("Failed to build grid resources", "error", err)
		os.Exit(1)
	}
	gridSvc, err := grid.NewService(grid.Options{
		DefaultPageSize: cfg.Grid.DefaultPageSize,
		MaxPageSize:     cfg.Grid.MaxPageSize,
		MaxBodySizeMB:   cfg.Server.MaxBodySizeMB,
	}, resources...)
	if err != nil {
		slog.Error("Failed to initialize grid service", "error", err)
		os.Exit(1)
	}
	slog.Info("Grid resources registered", "resources", gridSvc.Resources())

	// 4. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), health, cfg.Server.Mode)
	gridSvc.RegisterRoutes(srv.Engine)

	// 5. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler → triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// openStore builds the configured data source. The health checker is nil for
// the memory store.
func openStore(cfg *corecfg.Config) (storage.DirectoryStore, server.HealthChecker, func(), error) {
	if cfg.DataSource.Type == corecfg.DataSourceMemory {
		store, err := memory.Load(cfg.DataSource.FixturePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, nil, func() {}, nil
	}

	db, err := postgres.Open(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return nil, nil, nil, err
	}

	// 2.1. Run Database Migrations
	if err := migrations.RunMigrations(db, cfg.Database.AutoMigrate); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	adapter, err := postgres.NewAdapter(db)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	closeFn := func() {
		if err := adapter.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}
	return adapter, adapter, closeFn, nil
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
