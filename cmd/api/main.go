package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	app "github.com/mohammadpnp/product-import/internal/application/catalog"
	"github.com/mohammadpnp/product-import/internal/bootstrap"
	"github.com/mohammadpnp/product-import/internal/config"
	infrafile "github.com/mohammadpnp/product-import/internal/infrastructure/file"
	"github.com/mohammadpnp/product-import/internal/infrastructure/notify"
	"github.com/mohammadpnp/product-import/internal/infrastructure/repository"
	"github.com/mohammadpnp/product-import/internal/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to create pgx pool", zap.Error(err))
	}
	defer pool.Close()

	uploads := infrafile.NewLocalStore(cfg.UploadDir)
	importJobRepo := repository.NewImportJobRepository(db)
	bulkImporter := repository.NewProductBulkImportRepository(pool)
	webhookRepo := repository.NewWebhookRepository(db)

	worker := app.NewImportWorker(importJobRepo, uploads, bulkImporter, app.ImportWorkerConfig{
		Workers:   cfg.ImportWorkers,
		ChunkSize: cfg.ImportChunkSize,
	}, log)

	dispatcher := app.NewDispatcher(webhookRepo, notify.NewClient(cfg.WebhookTimeout), log)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	worker.Start(workerCtx)

	server := bootstrap.NewHTTPServer(db, worker, dispatcher, uploads, cfg, log)

	go func() {
		if err := server.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("graceful shutdown failed", zap.Error(err))
	}
}
