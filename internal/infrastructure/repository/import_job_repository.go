package repository

import (
	"context"
	"errors"
	"fmt"

	catalog "github.com/mohammadpnp/product-import/internal/domain/catalog"
	"github.com/mohammadpnp/product-import/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

// terminalStatuses guards every transition update: once a job is completed
// or failed its row is never mutated again.
var terminalStatuses = []string{string(catalog.JobCompleted), string(catalog.JobFailed)}

type ImportJobRepository struct {
	db *gorm.DB
}

func NewImportJobRepository(db *gorm.DB) *ImportJobRepository {
	return &ImportJobRepository{db: db}
}

func (r *ImportJobRepository) Create(ctx context.Context, filename, sourcePath string) (catalog.ImportJob, error) {
	job := models.ImportJob{
		Filename:   filename,
		SourcePath: sourcePath,
		Status:     string(catalog.JobPending),
	}

	if err := r.db.WithContext(ctx).Create(&job).Error; err != nil {
		return catalog.ImportJob{}, fmt.Errorf("create import job: %w", err)
	}

	return jobToDomain(job), nil
}

// GetByID issues a fresh query on every call. No identity map sits in front
// of it, so readers in other goroutines always observe the worker's latest
// committed ledger state.
func (r *ImportJobRepository) GetByID(ctx context.Context, jobID string) (*catalog.ImportJob, error) {
	var row models.ImportJob

	err := r.db.WithContext(ctx).Session(&gorm.Session{NewDB: true}).
		First(&row, "id = ?", jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrJobNotFound
		}
		return nil, fmt.Errorf("get import job: %w", err)
	}

	job := jobToDomain(row)
	return &job, nil
}

func (r *ImportJobRepository) MarkProcessing(ctx context.Context, jobID string) error {
	return r.transition(ctx, jobID, map[string]any{
		"status":   string(catalog.JobProcessing),
		"progress": 0,
	})
}

func (r *ImportJobRepository) SetTotalRecords(ctx context.Context, jobID string, total int64) error {
	return r.transition(ctx, jobID, map[string]any{
		"total_records": total,
	})
}

func (r *ImportJobRepository) Complete(ctx context.Context, jobID string, processed int64) error {
	return r.transition(ctx, jobID, map[string]any{
		"status":            string(catalog.JobCompleted),
		"progress":          100,
		"processed_records": processed,
	})
}

func (r *ImportJobRepository) Fail(ctx context.Context, jobID string, message string) error {
	return r.transition(ctx, jobID, map[string]any{
		"status":        string(catalog.JobFailed),
		"error_message": message,
	})
}

func (r *ImportJobRepository) transition(ctx context.Context, jobID string, updates map[string]any) error {
	err := r.db.WithContext(ctx).Model(&models.ImportJob{}).
		Where("id = ? AND status NOT IN ?", jobID, terminalStatuses).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("update import job %s: %w", jobID, err)
	}
	return nil
}

func jobToDomain(row models.ImportJob) catalog.ImportJob {
	return catalog.ImportJob{
		ID:               row.ID,
		Filename:         row.Filename,
		SourcePath:       row.SourcePath,
		Status:           catalog.ImportJobStatus(row.Status),
		Progress:         row.Progress,
		TotalRecords:     row.TotalRecords,
		ProcessedRecords: row.ProcessedRecords,
		ErrorMessage:     row.ErrorMessage,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}
