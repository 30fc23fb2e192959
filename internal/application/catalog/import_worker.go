package catalog

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	domain "github.com/mohammadpnp/product-import/internal/domain/catalog"
	"go.uber.org/zap"
)

type ImportSource interface {
	Open(ctx context.Context, sourcePath string) (io.ReadCloser, error)
	Remove(sourcePath string) error
}

type chunkImporter interface {
	ImportChunk(ctx context.Context, jobID string, products []domain.Product, progress domain.ChunkProgress) (domain.ChunkResult, error)
}

type importLedger interface {
	MarkProcessing(ctx context.Context, jobID string) error
	SetTotalRecords(ctx context.Context, jobID string, total int64) error
	Complete(ctx context.Context, jobID string, processed int64) error
	Fail(ctx context.Context, jobID string, message string) error
}

type ImportWorkerConfig struct {
	Workers   int
	ChunkSize int
	QueueSize int
}

// ImportWorker streams uploaded CSV files into the product store. Each job
// is owned by exactly one goroutine; all outcomes land in the job ledger.
type ImportWorker struct {
	ledger   importLedger
	source   ImportSource
	importer chunkImporter
	cfg      ImportWorkerConfig
	log      *zap.Logger

	queue chan domain.ImportJob
	once  sync.Once
}

func NewImportWorker(ledger importLedger, source ImportSource, importer chunkImporter, cfg ImportWorkerConfig, log *zap.Logger) *ImportWorker {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 10000
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &ImportWorker{
		ledger:   ledger,
		source:   source,
		importer: importer,
		cfg:      cfg,
		log:      log,
		queue:    make(chan domain.ImportJob, cfg.QueueSize),
	}
}

// Enqueue hands a pending job to the pool. The caller returns to its client
// immediately; processing happens outside the request cycle.
func (w *ImportWorker) Enqueue(job domain.ImportJob) {
	w.queue <- job
}

func (w *ImportWorker) Start(ctx context.Context) {
	w.once.Do(func() {
		for i := 0; i < w.cfg.Workers; i++ {
			go w.workerLoop(ctx)
		}
	})
}

func (w *ImportWorker) workerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-w.queue:
			if err := w.ProcessJob(ctx, job); err != nil {
				w.log.Error("import job failed",
					zap.String("job_id", job.ID),
					zap.Error(err))
			}
		}
	}
}

// ProcessJob runs one ingestion to completion or failure. It never panics
// across its boundary; every outcome is written to the ledger.
func (w *ImportWorker) ProcessJob(ctx context.Context, job domain.ImportJob) error {
	if err := w.ledger.MarkProcessing(ctx, job.ID); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	// Pre-pass over the whole file buys an honest progress denominator
	// before any row is applied.
	total, err := w.countDataRows(ctx, job.SourcePath)
	if err != nil {
		return w.failJob(ctx, job, fmt.Errorf("count rows: %w", err))
	}

	if err := w.ledger.SetTotalRecords(ctx, job.ID, total); err != nil {
		return w.failJob(ctx, job, fmt.Errorf("persist total: %w", err))
	}

	processed, err := w.streamRows(ctx, job, total)
	if err != nil {
		return w.failJob(ctx, job, err)
	}

	if err := w.ledger.Complete(ctx, job.ID, processed); err != nil {
		return w.failJob(ctx, job, fmt.Errorf("complete job: %w", err))
	}

	w.cleanup(job)
	w.log.Info("import job completed",
		zap.String("job_id", job.ID),
		zap.Int64("total_records", total),
		zap.Int64("processed_records", processed))
	return nil
}

func (w *ImportWorker) streamRows(ctx context.Context, job domain.ImportJob, total int64) (int64, error) {
	reader, err := w.source.Open(ctx, job.SourcePath)
	if err != nil {
		return 0, fmt.Errorf("open import source: %w", err)
	}
	defer reader.Close()

	rd := csv.NewReader(reader)
	rd.FieldsPerRecord = -1

	header, err := rd.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("read header: %w", err)
	}
	columns := mapColumns(header)

	var processed int64
	chunk := make([]domain.Product, 0, w.cfg.ChunkSize)

	flush := func() error {
		progress := domain.ChunkProgress{
			ProcessedRecords: processed,
			Progress:         domain.ProgressPercent(processed, total),
		}
		if _, err := w.importer.ImportChunk(ctx, job.ID, chunk, progress); err != nil {
			return fmt.Errorf("flush chunk: %w", err)
		}
		chunk = chunk[:0]
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		record, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				// Malformed row: skip and keep going. The gap stays
				// visible through processed vs total.
				continue
			}
			return 0, fmt.Errorf("read row: %w", err)
		}

		product, err := domain.NewImportedProduct(
			columns.field(record, "sku"),
			columns.field(record, "name"),
			columns.field(record, "description"),
		)
		if err != nil {
			continue
		}

		processed++
		chunk = append(chunk, product)
		if len(chunk) >= w.cfg.ChunkSize {
			if err := flush(); err != nil {
				return 0, err
			}
		}
	}

	// The final flush also persists the last processed/progress values even
	// when no rows remain in the chunk.
	if err := flush(); err != nil {
		return 0, err
	}

	return processed, nil
}

func (w *ImportWorker) countDataRows(ctx context.Context, sourcePath string) (int64, error) {
	reader, err := w.source.Open(ctx, sourcePath)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var lines int64
	for scanner.Scan() {
		lines++
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}

	// Header row is not a data row.
	if lines > 0 {
		lines--
	}
	return lines, nil
}

func (w *ImportWorker) failJob(ctx context.Context, job domain.ImportJob, cause error) error {
	if err := w.ledger.Fail(ctx, job.ID, truncateReason(cause.Error())); err != nil {
		w.log.Error("failed to record job failure",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}
	w.cleanup(job)
	return cause
}

func (w *ImportWorker) cleanup(job domain.ImportJob) {
	if err := w.source.Remove(job.SourcePath); err != nil {
		w.log.Debug("import source cleanup failed",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}
}

func truncateReason(reason string) string {
	const maxLen = 1000
	reason = strings.TrimSpace(reason)
	if len(reason) <= maxLen {
		return reason
	}
	return reason[:maxLen]
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// columnIndex maps recognized header names to their position; unrecognized
// columns are ignored.
type columnIndex map[string]int

func mapColumns(header []string) columnIndex {
	columns := make(columnIndex, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		switch key {
		case "sku", "name", "description":
			if _, seen := columns[key]; !seen {
				columns[key] = i
			}
		}
	}
	return columns
}

func (c columnIndex) field(record []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}
