package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Rrens/reply-assistant/internal/config"
	"github.com/Rrens/reply-assistant/internal/logger"
	"github.com/Rrens/reply-assistant/internal/repository/postgres"
	"github.com/Rrens/reply-assistant/internal/repository/sqlite"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	steps := flag.Int("steps", 1, "number of migrations to roll back with \"down\"")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-steps n] up|down\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	direction := "up"
	if flag.NArg() > 0 {
		direction = flag.Arg(0)
	}

	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if _, err := logger.Setup(cfg.Logging, cfg.Env); err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	if cfg.Database.Driver == "sqlite" {
		// the embedded store creates its schema when opened
		db, err := sqlite.Open(context.Background(), cfg.Database.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open SQLite database")
		}
		defer db.Close()
		log.Info().Str("path", cfg.Database.SQLitePath).Msg("SQLite schema is up to date")
		return
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("direction", direction).
		Msg("Running migrations")

	switch direction {
	case "up":
		err = postgres.RunMigrations(cfg.Database.DSN(), cfg.Database.MigrationsPath)
	case "down":
		err = postgres.RollbackMigrations(cfg.Database.DSN(), cfg.Database.MigrationsPath, *steps)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
