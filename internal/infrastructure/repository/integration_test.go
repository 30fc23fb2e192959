package repository_test

import (
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const catalogSchemaSQL = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";
CREATE TABLE IF NOT EXISTS products (
  id BIGSERIAL PRIMARY KEY,
  sku VARCHAR(255) NOT NULL,
  name VARCHAR(500) NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS ix_products_sku_lower ON products (lower(sku));
CREATE TABLE IF NOT EXISTS import_jobs (
  id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  filename VARCHAR(255) NOT NULL,
  source_path TEXT NOT NULL,
  status VARCHAR(32) NOT NULL,
  progress INT NOT NULL DEFAULT 0,
  total_records BIGINT NOT NULL DEFAULT 0,
  processed_records BIGINT NOT NULL DEFAULT 0,
  error_message TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNLOGGED TABLE IF NOT EXISTS stg_products (
  job_id UUID NOT NULL,
  row_index BIGINT NOT NULL,
  sku TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS webhooks (
  id BIGSERIAL PRIMARY KEY,
  url VARCHAR(500) NOT NULL,
  event_type VARCHAR(100) NOT NULL,
  enabled BOOLEAN NOT NULL DEFAULT TRUE,
  secret VARCHAR(255),
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

const catalogCleanupSQL = `
DELETE FROM webhooks;
DELETE FROM stg_products;
DELETE FROM import_jobs;
DELETE FROM products;
`

// setupCatalogDB connects to TEST_DATABASE_URL, applies the schema and wipes
// all rows. Tests that need it are skipped when the variable is unset.
func setupCatalogDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}
	if err := gdb.Exec(catalogSchemaSQL).Error; err != nil {
		t.Fatalf("failed schema setup: %v", err)
	}
	if err := gdb.Exec(catalogCleanupSQL).Error; err != nil {
		t.Fatalf("failed cleanup: %v", err)
	}

	return gdb, dsn
}
