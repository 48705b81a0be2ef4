package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"expense-tracker/internal/api"
	"expense-tracker/internal/api/handlers"
	"expense-tracker/internal/repository"
	"expense-tracker/internal/service"
	"expense-tracker/pkg/config"
	"expense-tracker/pkg/logger"
	"expense-tracker/pkg/postgres"

	"go.uber.org/zap"
)

// @title Expense Tracker API
// @version 1.0
// @description Income and expense bookkeeping

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3001
// @BasePath /

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting expense tracker service")

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to prepare database schema", zap.Error(err))
	}

	txRepo := repository.NewTransactionRepository(db, appLogger)
	txService := service.NewTransactionService(txRepo, appLogger)
	txHandler := handlers.NewTransactionHandler(txService, appLogger)

	app := api.SetupRouter(txHandler, cfg.Server, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
