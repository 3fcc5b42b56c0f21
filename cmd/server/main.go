package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geeranbalaranjan/tariff-shock/internal/config"
	"github.com/geeranbalaranjan/tariff-shock/internal/database"
	"github.com/geeranbalaranjan/tariff-shock/internal/modules/refdata"
	"github.com/geeranbalaranjan/tariff-shock/internal/modules/risk"
	"github.com/geeranbalaranjan/tariff-shock/internal/server"
	"github.com/geeranbalaranjan/tariff-shock/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting tariff risk scoring service")

	// Initialize trade database
	db, err := database.New(database.Config{
		Path: cfg.TradeDBPath(),
		Name: "trade",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize trade database")
	}
	defer db.Close()

	repo := refdata.NewSectorRepository(db.Conn(), log)
	if err := repo.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize trade schema")
	}

	// Load static lookup tables
	names, err := refdata.LoadNameTables()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load name tables")
	}

	// One-time load of the sector universe. A malformed dataset aborts
	// startup rather than serving partial data.
	loader := refdata.NewLoader(repo, names, log)
	if err := loader.Load(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load sector universe")
	}

	tariffs, err := refdata.LoadTariffTable(cfg.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load tariff rate table")
	}

	engine, err := risk.NewEngine(loader, tariffs, risk.DefaultConfig(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create risk engine")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		DB:      db,
		Engine:  engine,
		Loader:  loader,
		Tariffs: tariffs,
		DevMode: cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Int("sectors", loader.Count()).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
