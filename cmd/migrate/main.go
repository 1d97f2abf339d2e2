// Command migrate applies pending schema migrations and exits.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/supercobra/mojo-crm/internal/adapter/postgres"
	"github.com/supercobra/mojo-crm/internal/app"
	"github.com/supercobra/mojo-crm/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		app.NewLogger(config.LogConfig{Level: "info", Format: "text"}).Error("load config", "error", err)
		os.Exit(1)
	}

	log := app.NewLogger(cfg.Log)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Error("apply migrations", "error", err)
		os.Exit(1)
	}

	log.Info("migrations applied")
}
