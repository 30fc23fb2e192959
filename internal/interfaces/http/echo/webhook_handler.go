package echo

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/product-import/internal/application/catalog"
	domain "github.com/mohammadpnp/product-import/internal/domain/catalog"
)

type webhookService interface {
	List(ctx context.Context) ([]app.WebhookView, error)
	Get(ctx context.Context, webhookID int64) (app.WebhookView, error)
	Create(ctx context.Context, in app.CreateWebhookInput) (app.WebhookView, error)
	Update(ctx context.Context, webhookID int64, in app.UpdateWebhookInput) (app.WebhookView, error)
	Delete(ctx context.Context, webhookID int64) error
	Test(ctx context.Context, webhookID int64, payload map[string]any) (app.TestWebhookOutput, error)
}

type WebhookHandler struct {
	webhooks webhookService
}

func NewWebhookHandler(webhooks webhookService) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

type createWebhookRequest struct {
	URL       string  `json:"url"`
	EventType string  `json:"event_type"`
	Enabled   *bool   `json:"enabled"`
	Secret    *string `json:"secret"`
}

type updateWebhookRequest struct {
	URL       *string `json:"url"`
	EventType *string `json:"event_type"`
	Enabled   *bool   `json:"enabled"`
	Secret    *string `json:"secret"`
}

func (h *WebhookHandler) List(c echo.Context) error {
	views, err := h.webhooks.List(c.Request().Context())
	if err != nil {
		return internalError(c, "failed to list webhooks")
	}
	return c.JSON(http.StatusOK, apiResponse{Data: views})
}

func (h *WebhookHandler) Get(c echo.Context) error {
	webhookID, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be an integer")
	}

	view, err := h.webhooks.Get(c.Request().Context(), webhookID)
	if err != nil {
		return webhookError(c, err, "failed to get webhook")
	}
	return c.JSON(http.StatusOK, apiResponse{Data: view})
}

func (h *WebhookHandler) Create(c echo.Context) error {
	var req createWebhookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	view, err := h.webhooks.Create(c.Request().Context(), app.CreateWebhookInput{
		URL:       req.URL,
		EventType: req.EventType,
		Enabled:   req.Enabled,
		Secret:    req.Secret,
	})
	if err != nil {
		if errors.Is(err, app.ErrWebhookFieldsNeeded) {
			return badRequest(c, "url and event_type are required")
		}
		return internalError(c, "failed to create webhook")
	}

	return c.JSON(http.StatusCreated, apiResponse{Data: view})
}

func (h *WebhookHandler) Update(c echo.Context) error {
	webhookID, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be an integer")
	}

	var req updateWebhookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	view, err := h.webhooks.Update(c.Request().Context(), webhookID, app.UpdateWebhookInput{
		URL:       req.URL,
		EventType: req.EventType,
		Enabled:   req.Enabled,
		Secret:    req.Secret,
	})
	if err != nil {
		return webhookError(c, err, "failed to update webhook")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: view})
}

func (h *WebhookHandler) Delete(c echo.Context) error {
	webhookID, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be an integer")
	}

	if err := h.webhooks.Delete(c.Request().Context(), webhookID); err != nil {
		return webhookError(c, err, "failed to delete webhook")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: map[string]string{
		"message": "Webhook deleted successfully",
	}})
}

// Test fires a delivery at one webhook regardless of its enabled flag or
// subscribed event type.
func (h *WebhookHandler) Test(c echo.Context) error {
	webhookID, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be an integer")
	}

	var payload map[string]any
	if err := c.Bind(&payload); err != nil {
		payload = nil
	}

	out, err := h.webhooks.Test(c.Request().Context(), webhookID, payload)
	if err != nil {
		return webhookError(c, err, "failed to test webhook")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func webhookError(c echo.Context, err error, fallback string) error {
	if errors.Is(err, domain.ErrWebhookNotFound) {
		return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
			Code:    "not_found",
			Message: "webhook not found",
		}})
	}
	return internalError(c, fallback)
}
