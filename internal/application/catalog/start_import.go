package catalog

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	domain "github.com/mohammadpnp/product-import/internal/domain/catalog"
)

var allowedImportExtensions = map[string]bool{
	".csv": true,
}

type uploadStore interface {
	Save(filename string, r io.Reader) (string, error)
}

type jobCreator interface {
	Create(ctx context.Context, filename, sourcePath string) (domain.ImportJob, error)
}

type jobQueue interface {
	Enqueue(job domain.ImportJob)
}

type StartImportInput struct {
	Filename string
	Content  io.Reader
}

type StartImportOutput struct {
	JobID    string `json:"job_id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

// StartImport persists the upload, records a pending ledger row and hands
// the job to the worker pool. The caller's request returns immediately.
type StartImport struct {
	uploads uploadStore
	jobs    jobCreator
	queue   jobQueue
}

func NewStartImport(uploads uploadStore, jobs jobCreator, queue jobQueue) *StartImport {
	return &StartImport{uploads: uploads, jobs: jobs, queue: queue}
}

func (uc *StartImport) Execute(ctx context.Context, in StartImportInput) (StartImportOutput, error) {
	filename := strings.TrimSpace(in.Filename)
	if filename == "" || in.Content == nil {
		return StartImportOutput{}, ErrNoFile
	}
	if !allowedImportExtensions[strings.ToLower(filepath.Ext(filename))] {
		return StartImportOutput{}, ErrInvalidFileType
	}

	sourcePath, err := uc.uploads.Save(filename, in.Content)
	if err != nil {
		return StartImportOutput{}, fmt.Errorf("%w: %v", ErrEnqueueImportJob, err)
	}

	job, err := uc.jobs.Create(ctx, filename, sourcePath)
	if err != nil {
		return StartImportOutput{}, fmt.Errorf("%w: %v", ErrEnqueueImportJob, err)
	}

	uc.queue.Enqueue(job)

	return StartImportOutput{
		JobID:    job.ID,
		Filename: job.Filename,
		Status:   string(job.Status),
	}, nil
}
