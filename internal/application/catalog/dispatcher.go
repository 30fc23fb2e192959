package catalog

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	domain "github.com/mohammadpnp/product-import/internal/domain/catalog"
	"go.uber.org/zap"
)

type webhookReader interface {
	ListEnabledByEvent(ctx context.Context, eventType string) ([]domain.Webhook, error)
}

type deliverySender interface {
	Post(ctx context.Context, url string, payload []byte) (int, string, error)
}

// DeliveryResult captures one outbound attempt. Failures become values
// here; they never propagate to the caller that fired the event.
type DeliveryResult struct {
	WebhookID      int64    `json:"webhook_id"`
	WebhookURL     string   `json:"webhook_url"`
	Success        bool     `json:"success"`
	StatusCode     *int     `json:"status_code"`
	ResponseTimeMs *float64 `json:"response_time_ms"`
	ResponseText   string   `json:"response_text,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Dispatcher fans a catalog event out to every matching subscriber.
type Dispatcher struct {
	webhooks webhookReader
	sender   deliverySender
	log      *zap.Logger
}

func NewDispatcher(webhooks webhookReader, sender deliverySender, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{webhooks: webhooks, sender: sender, log: log}
}

// Dispatch delivers the event to all enabled subscribers of eventType, one
// goroutine per target. The aggregate result is informational only.
func (d *Dispatcher) Dispatch(ctx context.Context, eventType string, payload map[string]any) []DeliveryResult {
	targets, err := d.webhooks.ListEnabledByEvent(ctx, eventType)
	if err != nil {
		d.log.Error("webhook lookup failed",
			zap.String("event", eventType),
			zap.Error(err))
		return nil
	}
	if len(targets) == 0 {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		d.log.Error("webhook payload marshal failed",
			zap.String("event", eventType),
			zap.Error(err))
		return nil
	}

	results := make([]DeliveryResult, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target domain.Webhook) {
			defer wg.Done()
			results[i] = d.deliver(ctx, target, body)
		}(i, target)
	}
	wg.Wait()

	return results
}

// DispatchTo delivers to a single target regardless of its enabled flag or
// event type. Used by the explicit test-delivery path.
func (d *Dispatcher) DispatchTo(ctx context.Context, target domain.Webhook, payload map[string]any) DeliveryResult {
	body, err := json.Marshal(payload)
	if err != nil {
		return DeliveryResult{
			WebhookID:  target.ID,
			WebhookURL: target.URL,
			Error:      err.Error(),
		}
	}
	return d.deliver(ctx, target, body)
}

func (d *Dispatcher) deliver(ctx context.Context, target domain.Webhook, body []byte) DeliveryResult {
	result := DeliveryResult{
		WebhookID:  target.ID,
		WebhookURL: target.URL,
	}

	start := time.Now()
	status, responseText, err := d.sender.Post(ctx, target.URL, body)
	if err != nil {
		result.Error = err.Error()
		d.log.Warn("webhook delivery failed",
			zap.Int64("webhook_id", target.ID),
			zap.String("url", target.URL),
			zap.Error(err))
		return result
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000
	result.Success = status < 400
	result.StatusCode = &status
	result.ResponseTimeMs = &elapsed
	result.ResponseText = responseText

	d.log.Debug("webhook delivered",
		zap.Int64("webhook_id", target.ID),
		zap.Int("status", status),
		zap.Float64("response_time_ms", elapsed))
	return result
}
