package catalog

import (
	"context"
	"strings"
	"time"

	domain "github.com/mohammadpnp/product-import/internal/domain/catalog"
)

type webhookRepo interface {
	List(ctx context.Context) ([]domain.Webhook, error)
	GetByID(ctx context.Context, webhookID int64) (*domain.Webhook, error)
	Create(ctx context.Context, webhook domain.Webhook) (domain.Webhook, error)
	Update(ctx context.Context, webhook domain.Webhook) (domain.Webhook, error)
	Delete(ctx context.Context, webhookID int64) error
}

type testDispatcher interface {
	DispatchTo(ctx context.Context, target domain.Webhook, payload map[string]any) DeliveryResult
}

type WebhookView struct {
	ID        int64   `json:"id"`
	URL       string  `json:"url"`
	EventType string  `json:"event_type"`
	Enabled   bool    `json:"enabled"`
	Secret    *string `json:"secret"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func webhookViewOf(w domain.Webhook) WebhookView {
	return WebhookView{
		ID:        w.ID,
		URL:       w.URL,
		EventType: w.EventType,
		Enabled:   w.Enabled,
		Secret:    w.Secret,
		CreatedAt: w.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: w.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type CreateWebhookInput struct {
	URL       string
	EventType string
	Enabled   *bool
	Secret    *string
}

type UpdateWebhookInput struct {
	URL       *string
	EventType *string
	Enabled   *bool
	Secret    *string
}

type TestWebhookOutput struct {
	WebhookID  int64          `json:"webhook_id"`
	WebhookURL string         `json:"webhook_url"`
	TestResult DeliveryResult `json:"test_result"`
}

// WebhookService manages the subscriber registry and the explicit
// test-delivery path.
type WebhookService struct {
	repo       webhookRepo
	dispatcher testDispatcher
}

func NewWebhookService(repo webhookRepo, dispatcher testDispatcher) *WebhookService {
	return &WebhookService{repo: repo, dispatcher: dispatcher}
}

func (s *WebhookService) List(ctx context.Context) ([]WebhookView, error) {
	webhooks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]WebhookView, 0, len(webhooks))
	for _, w := range webhooks {
		views = append(views, webhookViewOf(w))
	}
	return views, nil
}

func (s *WebhookService) Get(ctx context.Context, webhookID int64) (WebhookView, error) {
	webhook, err := s.repo.GetByID(ctx, webhookID)
	if err != nil {
		return WebhookView{}, err
	}
	return webhookViewOf(*webhook), nil
}

func (s *WebhookService) Create(ctx context.Context, in CreateWebhookInput) (WebhookView, error) {
	if strings.TrimSpace(in.URL) == "" || strings.TrimSpace(in.EventType) == "" {
		return WebhookView{}, ErrWebhookFieldsNeeded
	}

	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}

	created, err := s.repo.Create(ctx, domain.Webhook{
		URL:       in.URL,
		EventType: in.EventType,
		Enabled:   enabled,
		Secret:    in.Secret,
	})
	if err != nil {
		return WebhookView{}, err
	}
	return webhookViewOf(created), nil
}

func (s *WebhookService) Update(ctx context.Context, webhookID int64, in UpdateWebhookInput) (WebhookView, error) {
	webhook, err := s.repo.GetByID(ctx, webhookID)
	if err != nil {
		return WebhookView{}, err
	}

	if in.URL != nil {
		webhook.URL = *in.URL
	}
	if in.EventType != nil {
		webhook.EventType = *in.EventType
	}
	if in.Enabled != nil {
		webhook.Enabled = *in.Enabled
	}
	if in.Secret != nil {
		webhook.Secret = in.Secret
	}

	updated, err := s.repo.Update(ctx, *webhook)
	if err != nil {
		return WebhookView{}, err
	}
	return webhookViewOf(updated), nil
}

func (s *WebhookService) Delete(ctx context.Context, webhookID int64) error {
	return s.repo.Delete(ctx, webhookID)
}

// Test sends a delivery to one webhook, bypassing the enabled and
// event-type filters for that target.
func (s *WebhookService) Test(ctx context.Context, webhookID int64, payload map[string]any) (TestWebhookOutput, error) {
	webhook, err := s.repo.GetByID(ctx, webhookID)
	if err != nil {
		return TestWebhookOutput{}, err
	}

	if payload == nil {
		payload = map[string]any{
			"event":     domain.EventWebhookTest,
			"message":   "This is a test webhook trigger",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
	}

	result := s.dispatcher.DispatchTo(ctx, *webhook, payload)

	return TestWebhookOutput{
		WebhookID:  webhook.ID,
		WebhookURL: webhook.URL,
		TestResult: result,
	}, nil
}
