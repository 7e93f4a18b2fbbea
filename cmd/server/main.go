package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shareit-go/shareit-backend/internal/app"
	"github.com/shareit-go/shareit-backend/internal/config"
	"github.com/shareit-go/shareit-backend/internal/db"
	"github.com/shareit-go/shareit-backend/internal/pkg/logging"
	"github.com/shareit-go/shareit-backend/internal/pkg/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to connect to db", zap.Error(err))
	}
	defer pool.Close()

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Fatal("failed to init storage", zap.Error(err))
	}

	container := app.NewContainer(app.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		DBPool:       pool,
		Store:        store,
		Logger:       logger,
		JWTSecret:    cfg.JWTSecret,
		JWTTTL:       cfg.JWTAccessTokenTTL,
		BcryptCost:   cfg.BcryptCost,
	})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	go func() {
		logger.Info("server running", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited gracefully")
}
