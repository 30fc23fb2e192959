package catalog

import "time"

const (
	EventProductCreated     = "product.created"
	EventProductUpdated     = "product.updated"
	EventProductDeleted     = "product.deleted"
	EventProductBulkDeleted = "product.bulk_deleted"
	EventWebhookTest        = "webhook.test"
)

type Webhook struct {
	ID        int64
	URL       string
	EventType string
	Enabled   bool
	// Secret is stored for webhook owners but not yet used to sign payloads.
	Secret    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
