package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	catalog "github.com/mohammadpnp/product-import/internal/domain/catalog"
)

type ProductBulkImportRepository struct {
	pool *pgxpool.Pool
}

func NewProductBulkImportRepository(pool *pgxpool.Pool) *ProductBulkImportRepository {
	return &ProductBulkImportRepository{pool: pool}
}

// ImportChunk applies one chunk of staged products and the matching ledger
// progress in a single transaction. Readers therefore never observe a
// chunk's row effects without its progress update, or the reverse.
func (r *ProductBulkImportRepository) ImportChunk(ctx context.Context, jobID string, products []catalog.Product, progress catalog.ChunkProgress) (catalog.ChunkResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return catalog.ChunkResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var result catalog.ChunkResult
	if len(products) > 0 {
		result, err = stageAndUpsert(ctx, tx, jobID, products)
		if err != nil {
			return catalog.ChunkResult{}, err
		}
	}

	if _, err := tx.Exec(ctx, `
UPDATE import_jobs
SET processed_records = $2,
    progress = $3,
    updated_at = NOW()
WHERE id = $1 AND status NOT IN ('completed','failed')
`, jobID, progress.ProcessedRecords, progress.Progress); err != nil {
		return catalog.ChunkResult{}, fmt.Errorf("update job progress: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return catalog.ChunkResult{}, fmt.Errorf("commit import chunk: %w", err)
	}

	return result, nil
}

func stageAndUpsert(ctx context.Context, tx pgx.Tx, jobID string, products []catalog.Product) (catalog.ChunkResult, error) {
	rows := make([][]any, 0, len(products))
	for i, product := range products {
		rows = append(rows, []any{jobID, int64(i), product.SKU, product.Name, product.Description})
	}

	if _, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"stg_products"},
		[]string{"job_id", "row_index", "sku", "name", "description"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return catalog.ChunkResult{}, fmt.Errorf("copy products staging: %w", err)
	}

	upserted, err := tx.Query(ctx, `
WITH staged AS (
    SELECT DISTINCT ON (sku)
      sku,
      name,
      description
    FROM stg_products
    WHERE job_id = $1
    ORDER BY sku, row_index DESC
), applied AS (
    INSERT INTO products (sku, name, description, active, created_at, updated_at)
    SELECT sku, name, description, TRUE, NOW(), NOW()
    FROM staged
    ON CONFLICT ((lower(sku))) DO UPDATE
      SET name = EXCLUDED.name,
          description = EXCLUDED.description,
          updated_at = NOW()
    RETURNING (xmax = 0) AS inserted
)
SELECT inserted FROM applied
`, jobID)
	if err != nil {
		return catalog.ChunkResult{}, fmt.Errorf("upsert products: %w", err)
	}
	defer upserted.Close()

	created, updated, err := countInsertedUpdated(upserted)
	if err != nil {
		return catalog.ChunkResult{}, err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM stg_products WHERE job_id = $1", jobID); err != nil {
		return catalog.ChunkResult{}, fmt.Errorf("cleanup stg_products: %w", err)
	}

	return catalog.ChunkResult{CreatedCount: created, UpdatedCount: updated}, nil
}

func countInsertedUpdated(rows pgx.Rows) (int64, int64, error) {
	var created int64
	var updated int64

	for rows.Next() {
		var inserted bool
		if err := rows.Scan(&inserted); err != nil {
			return 0, 0, err
		}
		if inserted {
			created++
		} else {
			updated++
		}
	}

	if err := rows.Err(); err != nil {
		return 0, 0, err
	}

	return created, updated, nil
}
