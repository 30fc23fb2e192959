package catalog_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	app "github.com/mohammadpnp/product-import/internal/application/catalog"
	domain "github.com/mohammadpnp/product-import/internal/domain/catalog"
)

type fakeLedger struct {
	mu sync.Mutex

	processingCalled bool
	total            int64
	totalSet         bool
	completedWith    *int64
	failedWith       string
	failErr          error
	markErr          error
}

func (f *fakeLedger) MarkProcessing(ctx context.Context, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processingCalled = true
	return f.markErr
}

func (f *fakeLedger) SetTotalRecords(ctx context.Context, jobID string, total int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.total = total
	f.totalSet = true
	return nil
}

func (f *fakeLedger) Complete(ctx context.Context, jobID string, processed int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completedWith = &processed
	return nil
}

func (f *fakeLedger) Fail(ctx context.Context, jobID string, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failedWith = message
	return f.failErr
}

type fakeSource struct {
	data    string
	openErr error
	removed []string
}

func (f *fakeSource) Open(ctx context.Context, sourcePath string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(strings.NewReader(f.data)), nil
}

func (f *fakeSource) Remove(sourcePath string) error {
	f.removed = append(f.removed, sourcePath)
	return nil
}

type fakeChunkImporter struct {
	calls      int
	rows       []domain.Product
	progresses []domain.ChunkProgress
	failOnCall int
}

func (f *fakeChunkImporter) ImportChunk(ctx context.Context, jobID string, products []domain.Product, progress domain.ChunkProgress) (domain.ChunkResult, error) {
	f.calls++
	if f.failOnCall > 0 && f.calls == f.failOnCall {
		return domain.ChunkResult{}, errors.New("copy failed")
	}
	f.rows = append(f.rows, products...)
	f.progresses = append(f.progresses, progress)
	return domain.ChunkResult{CreatedCount: int64(len(products))}, nil
}

func newWorker(ledger *fakeLedger, source *fakeSource, importer *fakeChunkImporter, chunkSize int) *app.ImportWorker {
	return app.NewImportWorker(ledger, source, importer, app.ImportWorkerConfig{
		Workers:   1,
		ChunkSize: chunkSize,
	}, nil)
}

func TestProcessJobNormalizesAndSkips(t *testing.T) {
	t.Parallel()

	ledger := &fakeLedger{}
	source := &fakeSource{data: "sku,name,description\nA,Foo,first\na,Bar,second\n,Ignored,third\n"}
	importer := &fakeChunkImporter{}

	worker := newWorker(ledger, source, importer, 100)

	err := worker.ProcessJob(context.Background(), domain.ImportJob{ID: "job-1", SourcePath: "products.csv"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if ledger.total != 3 {
		t.Fatalf("expected total_records=3, got %d", ledger.total)
	}
	if ledger.completedWith == nil || *ledger.completedWith != 2 {
		t.Fatalf("expected processed_records=2, got %v", ledger.completedWith)
	}

	if len(importer.rows) != 2 {
		t.Fatalf("expected 2 staged rows, got %d", len(importer.rows))
	}
	for _, row := range importer.rows {
		if row.SKU != "a" {
			t.Fatalf("expected normalized sku %q, got %q", "a", row.SKU)
		}
	}
	// Last-write-wins inside a job: the second row's fields survive.
	if importer.rows[1].Name != "Bar" {
		t.Fatalf("expected last row name Bar, got %q", importer.rows[1].Name)
	}

	if len(source.removed) != 1 {
		t.Fatalf("expected source cleanup, got %v", source.removed)
	}
}

func TestProcessJobProgressMonotonic(t *testing.T) {
	t.Parallel()

	ledger := &fakeLedger{}
	source := &fakeSource{data: "sku,name\nA,Foo\na,Bar\n,Ignored\n"}
	importer := &fakeChunkImporter{}

	worker := newWorker(ledger, source, importer, 1)

	err := worker.ProcessJob(context.Background(), domain.ImportJob{ID: "job-1", SourcePath: "products.csv"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(importer.progresses) == 0 {
		t.Fatal("expected progress updates")
	}
	last := -1
	for _, p := range importer.progresses {
		if p.Progress < last {
			t.Fatalf("progress decreased: %v", importer.progresses)
		}
		last = p.Progress
	}
	if importer.progresses[0].Progress != 33 {
		t.Fatalf("expected first flush at 33, got %d", importer.progresses[0].Progress)
	}
	final := importer.progresses[len(importer.progresses)-1]
	if final.ProcessedRecords != 2 {
		t.Fatalf("expected final processed=2, got %d", final.ProcessedRecords)
	}
}

func TestProcessJobChunkFailureLeavesEarlierChunks(t *testing.T) {
	t.Parallel()

	ledger := &fakeLedger{}
	source := &fakeSource{data: "sku,name\nA,Foo\nB,Bar\n"}
	importer := &fakeChunkImporter{failOnCall: 2}

	worker := newWorker(ledger, source, importer, 1)

	err := worker.ProcessJob(context.Background(), domain.ImportJob{ID: "job-1", SourcePath: "products.csv"})
	if err == nil {
		t.Fatal("expected error")
	}

	if ledger.failedWith == "" {
		t.Fatal("expected job to be failed with a message")
	}
	if ledger.completedWith != nil {
		t.Fatal("did not expect completion")
	}
	// Chunk 1 was applied before the failure.
	if len(importer.rows) != 1 || importer.rows[0].SKU != "a" {
		t.Fatalf("expected chunk 1 applied, got %v", importer.rows)
	}
	if len(source.removed) != 1 {
		t.Fatal("expected source cleanup after failure")
	}
}

func TestProcessJobOpenFailure(t *testing.T) {
	t.Parallel()

	ledger := &fakeLedger{}
	source := &fakeSource{openErr: errors.New("no such file")}
	importer := &fakeChunkImporter{}

	worker := newWorker(ledger, source, importer, 10)

	err := worker.ProcessJob(context.Background(), domain.ImportJob{ID: "job-1", SourcePath: "gone.csv"})
	if err == nil {
		t.Fatal("expected error")
	}
	if ledger.failedWith == "" {
		t.Fatal("expected failure message in ledger")
	}
	if importer.calls != 0 {
		t.Fatal("expected no chunk imports")
	}
}

func TestProcessJobMalformedRowSkipped(t *testing.T) {
	t.Parallel()

	ledger := &fakeLedger{}
	source := &fakeSource{data: "sku,name\nA,Foo\n\"broken\n"}
	importer := &fakeChunkImporter{}

	worker := newWorker(ledger, source, importer, 10)

	err := worker.ProcessJob(context.Background(), domain.ImportJob{ID: "job-1", SourcePath: "products.csv"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ledger.completedWith == nil || *ledger.completedWith != 1 {
		t.Fatalf("expected processed=1, got %v", ledger.completedWith)
	}
	if ledger.total != 2 {
		t.Fatalf("expected total=2, got %d", ledger.total)
	}
}

func TestProcessJobEmptyFile(t *testing.T) {
	t.Parallel()

	ledger := &fakeLedger{}
	source := &fakeSource{data: ""}
	importer := &fakeChunkImporter{}

	worker := newWorker(ledger, source, importer, 10)

	err := worker.ProcessJob(context.Background(), domain.ImportJob{ID: "job-1", SourcePath: "empty.csv"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ledger.total != 0 {
		t.Fatalf("expected total=0, got %d", ledger.total)
	}
	if ledger.completedWith == nil || *ledger.completedWith != 0 {
		t.Fatalf("expected processed=0, got %v", ledger.completedWith)
	}
}
