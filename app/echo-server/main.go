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

	httpMetrics "github.com/LuigyJJ/invfarm2/app/echo-server/metrics"
	"github.com/LuigyJJ/invfarm2/app/echo-server/router"
	"github.com/LuigyJJ/invfarm2/business/category"
	psqlRepo "github.com/LuigyJJ/invfarm2/internal/repository/postgres"
	"github.com/LuigyJJ/invfarm2/internal/repository/storage"
	"github.com/LuigyJJ/invfarm2/internal/rest"
	"github.com/LuigyJJ/invfarm2/pkg/config"
	"github.com/LuigyJJ/invfarm2/pkg/database"
	"github.com/LuigyJJ/invfarm2/pkg/logger"
	"github.com/LuigyJJ/invfarm2/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting "+cfg.App.Name, "version", cfg.App.Version, "environment", cfg.App.Environment)

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close(db)

	logger.Info("Database connected successfully", "driver", cfg.Database.Driver)

	images, err := storage.New(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to init image storage", "driver", cfg.Storage.Driver, "error", err)
	}

	logger.Info("Image storage ready", "driver", cfg.Storage.Driver)

	// Init metrics
	metrics.Init()
	httpMetrics.Init()

	// Init repo
	categoryRepo := psqlRepo.NewCategoryRepository(db)

	// Init service
	categoryService := category.NewCategoryService(categoryRepo, images, cfg.Storage.MaxImageBytes)

	// Init handler
	categoryHandler := rest.NewCategoryHandler(categoryService, cfg.Server.RequestTimeout, cfg.Storage.MaxImageBytes)

	var uploadsDir string
	if local, ok := images.(*storage.LocalStorage); ok {
		uploadsDir = local.Dir()
	}

	// Leave room for the multipart envelope around the image
	bodyLimit := fmt.Sprintf("%dK", cfg.Storage.MaxImageBytes/1024+512)

	e := router.New(router.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		BodyLimit:      bodyLimit,
		UploadsDir:     uploadsDir,
	}, categoryHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
