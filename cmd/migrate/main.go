package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/firehawk/backend/internal/config"
	"github.com/firehawk/backend/internal/logging"
	"github.com/firehawk/backend/internal/repository"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  up (default)  apply pending migrations
  down          roll back every migration
  version       print the current schema version`)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load(".env", "../.env")
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("failed to load config", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	mg, err := repository.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer func() {
		if err := mg.Close(); err != nil {
			slog.Warn("close migrator", "error", err)
		}
	}()

	switch cmd {
	case "up":
		if err := mg.Up(); err != nil {
			logging.Fatal("migration failed", "error", err)
		}
		logVersion(mg, "migrations applied")
	case "down":
		if err := mg.Down(); err != nil {
			logging.Fatal("rollback failed", "error", err)
		}
		slog.Info("all migrations rolled back")
	case "version":
		logVersion(mg, "schema version")
	default:
		usage()
	}
}

func logVersion(mg *repository.Migrator, msg string) {
	version, dirty, err := mg.Version()
	if err != nil {
		logging.Fatal("read version failed", "error", err)
	}
	slog.Info(msg, "version", version, "dirty", dirty)
}
