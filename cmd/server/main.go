package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/academic-tracker/internal/config"
	"github.com/stemsi/academic-tracker/internal/database"
	"github.com/stemsi/academic-tracker/internal/handler"
	"github.com/stemsi/academic-tracker/internal/logger"
	"github.com/stemsi/academic-tracker/internal/repository"
	"github.com/stemsi/academic-tracker/internal/router"
	"github.com/stemsi/academic-tracker/internal/service"
	"github.com/stemsi/academic-tracker/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting " + cfg.ServiceName)

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Document Store ─────────────────────────────────────
	store := openStore(ctx, cfg, log)

	// ─── Initialize Services & Handlers ────────────────────────────────
	recordService := service.NewRecordService(store, log)

	handlers := &router.Handlers{
		System: handler.NewSystemHandler(cfg.ServiceName, recordService, log),
		Seed:   handler.NewSeedHandler(recordService, log),
		Record: handler.NewRecordHandler(recordService, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Document store close error")
	}

	log.Info().Msg("Shutdown complete")
}

// openStore never fails. Without a usable connection string the service
// still starts and serves empty reads; an unreachable server only logs a
// warning because both drivers reconnect on their own.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) repository.DocumentStore {
	if cfg.StoreTarget() == "" {
		log.Warn().Str("driver", cfg.StoreDriver).Msg("No store connection string set, serving empty reads")
		return repository.UnconfiguredStore{}
	}

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if pool == nil {
			log.Error().Err(err).Msg("Invalid PostgreSQL configuration, serving empty reads")
			return repository.UnconfiguredStore{}
		}
		if err != nil {
			log.Warn().Err(err).Msg("PostgreSQL not reachable yet")
		}
		return repository.NewPostgresStore(pool, cfg.StoreTimeout)

	case config.StoreDriverMongo:
		client, err := database.NewMongoClient(ctx, cfg, log)
		if client == nil {
			log.Error().Err(err).Msg("Invalid MongoDB configuration, serving empty reads")
			return repository.UnconfiguredStore{}
		}
		if err != nil {
			log.Warn().Err(err).Msg("MongoDB not reachable yet")
		}
		return repository.NewMongoStore(client, cfg.MongoDatabase, cfg.StoreTimeout)

	default:
		log.Error().Str("driver", cfg.StoreDriver).Msg("Unknown STORE_DRIVER, serving empty reads")
		return repository.UnconfiguredStore{}
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
