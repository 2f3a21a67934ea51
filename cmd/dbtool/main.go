// Command dbtool initializes the trips schema. Useful for environments
// where the server runs without DDL privileges.
package main

import (
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/diagmatrix/go-travel/internal/adapters/repositories"
	"github.com/diagmatrix/go-travel/internal/config"
	"github.com/diagmatrix/go-travel/internal/platform/db"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load configuration failed")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database failed")
	}
	defer database.Close()

	log.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(database); err != nil {
		log.Fatal().Err(err).Msg("schema initialization failed")
	}
	log.Info().Msg("schema ready")
}
