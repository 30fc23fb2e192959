package bootstrap

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	app "github.com/mohammadpnp/product-import/internal/application/catalog"
	"github.com/mohammadpnp/product-import/internal/config"
	"github.com/mohammadpnp/product-import/internal/infrastructure/file"
	"github.com/mohammadpnp/product-import/internal/infrastructure/repository"
	httpecho "github.com/mohammadpnp/product-import/internal/interfaces/http/echo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewHTTPServer(db *gorm.DB, worker *app.ImportWorker, dispatcher *app.Dispatcher, uploads *file.LocalStore, cfg *config.Config, log *zap.Logger) *echo.Echo {
	server := echo.New()
	server.HideBanner = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.MaxUploadBytes/(1024*1024))))

	importJobRepo := repository.NewImportJobRepository(db)
	productRepo := repository.NewProductRepository(db)
	webhookRepo := repository.NewWebhookRepository(db)

	startImport := app.NewStartImport(uploads, importJobRepo, worker)
	progress := app.NewGetImportProgress(importJobRepo)
	streamer := app.NewProgressStreamer(importJobRepo, app.ProgressStreamerConfig{
		Interval:     cfg.StreamInterval,
		ErrorBackoff: cfg.StreamErrorBackoff,
	}, log)

	importHandler := httpecho.NewImportHandler(startImport, progress, streamer)
	productHandler := httpecho.NewProductHandler(app.NewProductService(productRepo, dispatcher))
	webhookHandler := httpecho.NewWebhookHandler(app.NewWebhookService(webhookRepo, dispatcher))

	httpecho.RegisterRoutes(server, importHandler, productHandler, webhookHandler)

	server.GET("/api/v1/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "healthy"})
	})

	return server
}
