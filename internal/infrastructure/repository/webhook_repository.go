package repository

import (
	"context"
	"errors"
	"fmt"

	catalog "github.com/mohammadpnp/product-import/internal/domain/catalog"
	"github.com/mohammadpnp/product-import/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

type WebhookRepository struct {
	db *gorm.DB
}

func NewWebhookRepository(db *gorm.DB) *WebhookRepository {
	return &WebhookRepository{db: db}
}

func (r *WebhookRepository) List(ctx context.Context) ([]catalog.Webhook, error) {
	var rows []models.Webhook

	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}

	return webhooksToDomain(rows), nil
}

// ListEnabledByEvent returns the dispatch targets for one event type.
func (r *WebhookRepository) ListEnabledByEvent(ctx context.Context, eventType string) ([]catalog.Webhook, error) {
	var rows []models.Webhook

	err := r.db.WithContext(ctx).
		Where("event_type = ? AND enabled", eventType).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list webhooks for event %s: %w", eventType, err)
	}

	return webhooksToDomain(rows), nil
}

func (r *WebhookRepository) GetByID(ctx context.Context, webhookID int64) (*catalog.Webhook, error) {
	var row models.Webhook

	err := r.db.WithContext(ctx).First(&row, "id = ?", webhookID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrWebhookNotFound
		}
		return nil, fmt.Errorf("get webhook: %w", err)
	}

	webhook := webhookToDomain(row)
	return &webhook, nil
}

func (r *WebhookRepository) Create(ctx context.Context, webhook catalog.Webhook) (catalog.Webhook, error) {
	row := models.Webhook{
		URL:       webhook.URL,
		EventType: webhook.EventType,
		Enabled:   webhook.Enabled,
		Secret:    webhook.Secret,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return catalog.Webhook{}, fmt.Errorf("create webhook: %w", err)
	}

	return webhookToDomain(row), nil
}

func (r *WebhookRepository) Update(ctx context.Context, webhook catalog.Webhook) (catalog.Webhook, error) {
	updates := map[string]any{
		"url":        webhook.URL,
		"event_type": webhook.EventType,
		"enabled":    webhook.Enabled,
		"secret":     webhook.Secret,
	}

	err := r.db.WithContext(ctx).Model(&models.Webhook{}).
		Where("id = ?", webhook.ID).
		Updates(updates).Error
	if err != nil {
		return catalog.Webhook{}, fmt.Errorf("update webhook: %w", err)
	}

	updated, err := r.GetByID(ctx, webhook.ID)
	if err != nil {
		return catalog.Webhook{}, err
	}
	return *updated, nil
}

func (r *WebhookRepository) Delete(ctx context.Context, webhookID int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Webhook{}, "id = ?", webhookID)
	if result.Error != nil {
		return fmt.Errorf("delete webhook: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.ErrWebhookNotFound
	}
	return nil
}

func webhooksToDomain(rows []models.Webhook) []catalog.Webhook {
	webhooks := make([]catalog.Webhook, 0, len(rows))
	for _, row := range rows {
		webhooks = append(webhooks, webhookToDomain(row))
	}
	return webhooks
}

func webhookToDomain(row models.Webhook) catalog.Webhook {
	return catalog.Webhook{
		ID:        row.ID,
		URL:       row.URL,
		EventType: row.EventType,
		Enabled:   row.Enabled,
		Secret:    row.Secret,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
