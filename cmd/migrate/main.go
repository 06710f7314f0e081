package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/crewpulse/workload-backend/internal/config"
	"github.com/crewpulse/workload-backend/internal/infrastructure/logging"
)

func main() {
	var migrationsPath string
	var down bool

	flag.StringVar(&migrationsPath, "path", "migrations", "Path to the migrations directory")
	flag.BoolVar(&down, "down", false, "Roll back all migrations instead of applying them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	mig, err := migrate.New("file://"+migrationsPath, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to create migrate instance", "error", err)
		os.Exit(1)
	}

	if down {
		err = mig.Down()
	} else {
		err = mig.Up()
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	logger.Info("migrations applied", "path", migrationsPath, "down", down)
}
