package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/invtrack/inventory/internal/config"
	"github.com/invtrack/inventory/internal/delivery/events"
	httpDelivery "github.com/invtrack/inventory/internal/delivery/http"
	"github.com/invtrack/inventory/internal/delivery/http/handler"
	"github.com/invtrack/inventory/internal/pkg/cache"
	"github.com/invtrack/inventory/internal/pkg/database"
	"github.com/invtrack/inventory/internal/pkg/logger"
	"github.com/invtrack/inventory/internal/pkg/mailer"
	cacheRepo "github.com/invtrack/inventory/internal/repository/cache"
	"github.com/invtrack/inventory/internal/repository/postgres"
	"github.com/invtrack/inventory/internal/usecase/inventory"

	_ "github.com/invtrack/inventory/docs"
)

// @title Inventory Tracker API
// @version 1.0
// @description Inventory tracking backend with product CRUD, filtered listings and low-stock email alerts.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @tag.name Products
// @tag.description Product management endpoints

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting Inventory Tracker API...")

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL successfully")

	appLogger.Info("Running database migrations...")
	if err := database.RunMigrations(db); err != nil {
		appLogger.Fatal("Failed to run migrations", err)
	}

	appLogger.Info("Connecting to Redis...")
	redisClient, err := cache.WaitForRedis(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis successfully")

	appLogger.Info("Connecting to NATS...")
	publisher, err := events.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS publisher", err)
	}
	defer publisher.Close()

	productRepo := postgres.NewProductRepository(db)
	redisCache := cacheRepo.NewRedisCache(
		redisClient,
		cfg.Cache.ProductTTL,
		cfg.Cache.ProductListTTL,
	)

	smtpMailer := mailer.NewSMTPMailer(cfg, appLogger)

	inventoryService := inventory.NewService(productRepo, redisCache, publisher, appLogger)

	productHandler := handler.NewProductHandler(
		inventoryService,
		smtpMailer,
		cfg.Notify.Recipient,
		appLogger,
	)

	router := httpDelivery.NewRouter(productHandler, cfg, appLogger)
	httpHandler := router.Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", err)
	}

	appLogger.Info("Server stopped gracefully")
}
