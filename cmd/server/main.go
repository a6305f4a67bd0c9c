// Package main implements the entry point for the Nihongo API server,
// which tracks learners' Japanese study progression: spaced-repetition
// mastery of kana, kanji, words, and sentences, XP-based leveling, and
// achievements.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/benkyoapp/nihongo-api/internal/config"
	"github.com/benkyoapp/nihongo-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run database migrations (up|down|status) and exit")
	flag.Parse()

	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if *migrateCmd != "" {
		if err := runMigrations(db, *migrateCmd); err != nil {
			appLogger.Error("Migration failed", "command", *migrateCmd, "error", err)
			os.Exit(1)
		}
		appLogger.Info("Migrations completed", "command", *migrateCmd)
		return
	}

	ctx := context.Background()

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		appLogger.Error("Failed to build application", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		appLogger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	if cfg.Database.URL != "" {
		appLogger.Debug("Database configuration", "url_present", true)
	}
	if cfg.Auth.JWTSecret != "" {
		appLogger.Debug("Auth configuration", "jwt_secret_present", true)
	}

	return cfg, appLogger, nil
}
