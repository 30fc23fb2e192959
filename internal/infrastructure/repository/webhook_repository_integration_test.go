package repository_test

import (
	"context"
	"errors"
	"testing"

	domain "github.com/mohammadpnp/product-import/internal/domain/catalog"
	"github.com/mohammadpnp/product-import/internal/infrastructure/repository"
)

func TestWebhookRepositoryCRUDIntegration(t *testing.T) {
	gdb, _ := setupCatalogDB(t)
	repo := repository.NewWebhookRepository(gdb)
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.Webhook{
		URL:       "https://example.com/hook",
		EventType: domain.EventProductCreated,
		Enabled:   true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id, got %+v", created)
	}

	created.Enabled = false
	updated, err := repo.Update(ctx, created)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Enabled {
		t.Fatalf("expected disabled webhook, got %+v", updated)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 webhook, got %d", len(all))
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, created.ID); !errors.Is(err, domain.ErrWebhookNotFound) {
		t.Fatalf("expected ErrWebhookNotFound, got %v", err)
	}
}

func TestWebhookRepositoryListEnabledByEventIntegration(t *testing.T) {
	gdb, _ := setupCatalogDB(t)
	repo := repository.NewWebhookRepository(gdb)
	ctx := context.Background()

	seed := []domain.Webhook{
		{URL: "https://a.example/hook", EventType: domain.EventProductCreated, Enabled: true},
		{URL: "https://b.example/hook", EventType: domain.EventProductCreated, Enabled: false},
		{URL: "https://c.example/hook", EventType: domain.EventProductDeleted, Enabled: true},
	}
	for _, w := range seed {
		if _, err := repo.Create(ctx, w); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	targets, err := repo.ListEnabledByEvent(ctx, domain.EventProductCreated)
	if err != nil {
		t.Fatalf("list enabled failed: %v", err)
	}
	if len(targets) != 1 {
		t.Fatalf("expected 1 target, got %d", len(targets))
	}
	if targets[0].URL != "https://a.example/hook" {
		t.Fatalf("unexpected target: %+v", targets[0])
	}
}
