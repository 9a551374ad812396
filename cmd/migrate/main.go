package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/yanqian/stroke-risk/internal/infra/config"
	"github.com/yanqian/stroke-risk/pkg/logger"
)

func main() {
	var (
		migrationsPath string
		command        string
	)
	flag.StringVar(&migrationsPath, "path", "migrations", "path to the migrations directory")
	flag.StringVar(&command, "command", "up", "migration command: up, down, version")
	flag.Parse()

	if err := run(migrationsPath, command, logger.New()); err != nil {
		log.Fatal(err)
	}
}

func run(migrationsPath, command string, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		return errors.New("postgres.dsn (POSTGRES_DSN) is required")
	}

	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}
	defer m.Close()

	logger = logger.With("component", "migrate", "path", migrationsPath)
	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil {
			return fmt.Errorf("read version: %w", verr)
		}
		logger.Info("schema version", "version", version, "dirty", dirty)
		return nil
	default:
		return fmt.Errorf("unknown command %q (use up, down, version)", command)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("schema already up to date", "command", command)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	logger.Info("migrations applied", "command", command)
	return nil
}
