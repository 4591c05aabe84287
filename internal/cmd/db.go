// Package cmd implements the subcommands of the api binary.
package cmd

import (
	"context"
	"fmt"

	"github.com/emilythestrangee/blogicum/backend/internal/config"
	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/logging"
)

func initDB() (*config.Config, database.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func RunMigrate() int {
	logging.Init()
	logger := logging.Get()

	_, db, err := initDB()
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return 1
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db.GetDB()); err != nil {
		logger.Error("failed to run migrations", "error", err)
		return 1
	}
	logger.Info("migrations executed successfully")
	return 0
}
