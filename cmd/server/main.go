package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/diagmatrix/go-travel/internal/adapters/directions"
	"github.com/diagmatrix/go-travel/internal/adapters/repositories"
	"github.com/diagmatrix/go-travel/internal/api"
	"github.com/diagmatrix/go-travel/internal/config"
	"github.com/diagmatrix/go-travel/internal/platform/db"
	"github.com/diagmatrix/go-travel/internal/tracing"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Google Directions) behind ports and starts the HTTP server.
func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load configuration failed")
	}
	setLogLevel(cfg.LogLevel)

	if strings.TrimSpace(cfg.MapsAPIKey) == "" {
		log.Fatal().Msg("MAPS_API_KEY is required")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	shutdownTracer, err := tracing.InitTracer(tracing.Config{
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init tracing failed")
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Error().Err(err).Msg("shutdown tracer failed")
		}
	}()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database failed")
	}
	defer database.Close()

	// Initialize schema on startup for local runs.
	if err := repositories.InitSchema(database); err != nil {
		log.Fatal().Err(err).Msg("init schema failed")
	}

	provider, err := directions.NewGoogleProvider(cfg.MapsAPIKey, cfg.MapsBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("init directions provider failed")
	}

	repo := repositories.NewPostgresTripRepository(database)
	router := api.NewRouter(repo, provider, cfg.DefaultUnits)

	// Timeouts are tuned for multi-leg trip planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("shutdown signal received, gracefully stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	log.Info().Msg("service shutdown complete")
}

// setLogLevel configures the global log level.
func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
