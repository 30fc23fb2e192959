package catalog_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	app "github.com/mohammadpnp/product-import/internal/application/catalog"
	domain "github.com/mohammadpnp/product-import/internal/domain/catalog"
)

type fakeUploadStore struct {
	saved   []string
	saveErr error
}

func (f *fakeUploadStore) Save(filename string, r io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	_, _ = io.Copy(io.Discard, r)
	f.saved = append(f.saved, filename)
	return "uploads/abc_" + filename, nil
}

type fakeJobCreator struct {
	created   []domain.ImportJob
	createErr error
}

func (f *fakeJobCreator) Create(ctx context.Context, filename, sourcePath string) (domain.ImportJob, error) {
	if f.createErr != nil {
		return domain.ImportJob{}, f.createErr
	}
	job := domain.ImportJob{
		ID:         "3f1c7a4e-0000-0000-0000-000000000001",
		Filename:   filename,
		SourcePath: sourcePath,
		Status:     domain.JobPending,
	}
	f.created = append(f.created, job)
	return job, nil
}

type fakeJobQueue struct {
	enqueued []domain.ImportJob
}

func (f *fakeJobQueue) Enqueue(job domain.ImportJob) {
	f.enqueued = append(f.enqueued, job)
}

func TestStartImportAcceptsCSV(t *testing.T) {
	t.Parallel()

	uploads := &fakeUploadStore{}
	jobs := &fakeJobCreator{}
	queue := &fakeJobQueue{}

	out, err := app.NewStartImport(uploads, jobs, queue).Execute(context.Background(), app.StartImportInput{
		Filename: "Products.CSV",
		Content:  strings.NewReader("sku,name\nA,Foo\n"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if out.Status != string(domain.JobPending) {
		t.Fatalf("expected pending status, got %q", out.Status)
	}
	if out.JobID == "" {
		t.Fatal("expected a job id")
	}
	if len(queue.enqueued) != 1 || queue.enqueued[0].ID != out.JobID {
		t.Fatalf("expected job enqueued, got %+v", queue.enqueued)
	}
}

func TestStartImportRejectsExtension(t *testing.T) {
	t.Parallel()

	uploads := &fakeUploadStore{}
	queue := &fakeJobQueue{}

	_, err := app.NewStartImport(uploads, &fakeJobCreator{}, queue).Execute(context.Background(), app.StartImportInput{
		Filename: "products.xlsx",
		Content:  strings.NewReader("x"),
	})
	if !errors.Is(err, app.ErrInvalidFileType) {
		t.Fatalf("expected ErrInvalidFileType, got %v", err)
	}
	if len(uploads.saved) != 0 {
		t.Fatal("rejected upload must not be written to disk")
	}
	if len(queue.enqueued) != 0 {
		t.Fatal("rejected upload must not be enqueued")
	}
}

func TestStartImportRequiresFile(t *testing.T) {
	t.Parallel()

	start := app.NewStartImport(&fakeUploadStore{}, &fakeJobCreator{}, &fakeJobQueue{})

	if _, err := start.Execute(context.Background(), app.StartImportInput{}); !errors.Is(err, app.ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}
	if _, err := start.Execute(context.Background(), app.StartImportInput{Filename: "  "}); !errors.Is(err, app.ErrNoFile) {
		t.Fatalf("expected ErrNoFile for blank filename, got %v", err)
	}
}

func TestStartImportSaveFailure(t *testing.T) {
	t.Parallel()

	uploads := &fakeUploadStore{saveErr: errors.New("disk full")}
	queue := &fakeJobQueue{}

	_, err := app.NewStartImport(uploads, &fakeJobCreator{}, queue).Execute(context.Background(), app.StartImportInput{
		Filename: "products.csv",
		Content:  strings.NewReader("sku\nA\n"),
	})
	if !errors.Is(err, app.ErrEnqueueImportJob) {
		t.Fatalf("expected ErrEnqueueImportJob, got %v", err)
	}
	if len(queue.enqueued) != 0 {
		t.Fatal("failed save must not enqueue")
	}
}
