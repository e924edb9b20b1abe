package main

import (
	"context"
	"fmt"

	"github.com/jonathan/recruitment-timeline/internal/config"
	"github.com/jonathan/recruitment-timeline/internal/db"
	"github.com/jonathan/recruitment-timeline/internal/logging"
	"github.com/sirupsen/logrus"
)

// loadRuntime reads the configuration and builds the logger every command uses.
func loadRuntime() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

func connectDB(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if err := cfg.RequireDatabaseURL(); err != nil {
		return nil, err
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}
