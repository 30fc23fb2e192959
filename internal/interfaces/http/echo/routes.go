package echo

import e "github.com/labstack/echo/v4"

func RegisterRoutes(server *e.Echo, importHandler *ImportHandler, productHandler *ProductHandler, webhookHandler *WebhookHandler) {
	v1 := server.Group("/api/v1")

	v1.POST("/imports", importHandler.Upload)
	v1.GET("/imports/:id", importHandler.Progress)
	v1.GET("/imports/:id/stream", importHandler.StreamProgress)

	v1.GET("/products", productHandler.List)
	v1.POST("/products", productHandler.Create)
	v1.DELETE("/products/bulk-delete", productHandler.BulkDelete)
	v1.GET("/products/:id", productHandler.Get)
	v1.PUT("/products/:id", productHandler.Update)
	v1.DELETE("/products/:id", productHandler.Delete)

	v1.GET("/webhooks", webhookHandler.List)
	v1.POST("/webhooks", webhookHandler.Create)
	v1.GET("/webhooks/:id", webhookHandler.Get)
	v1.PUT("/webhooks/:id", webhookHandler.Update)
	v1.DELETE("/webhooks/:id", webhookHandler.Delete)
	v1.POST("/webhooks/:id/test", webhookHandler.Test)
}
