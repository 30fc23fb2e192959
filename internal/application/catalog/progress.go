package catalog

import (
	"context"
	"errors"
	"time"

	domain "github.com/mohammadpnp/product-import/internal/domain/catalog"
	"go.uber.org/zap"
)

type jobReader interface {
	GetByID(ctx context.Context, jobID string) (*domain.ImportJob, error)
}

// JobSnapshot is the wire form of one ledger read.
type JobSnapshot struct {
	ID               string  `json:"id"`
	Filename         string  `json:"filename"`
	Status           string  `json:"status"`
	Progress         int     `json:"progress"`
	TotalRecords     int64   `json:"total_records"`
	ProcessedRecords int64   `json:"processed_records"`
	ErrorMessage     *string `json:"error_message"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

func snapshotOf(job *domain.ImportJob) JobSnapshot {
	return JobSnapshot{
		ID:               job.ID,
		Filename:         job.Filename,
		Status:           string(job.Status),
		Progress:         job.Progress,
		TotalRecords:     job.TotalRecords,
		ProcessedRecords: job.ProcessedRecords,
		ErrorMessage:     job.ErrorMessage,
		CreatedAt:        job.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        job.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// GetImportProgress is the single-shot polling read.
type GetImportProgress struct {
	jobs jobReader
}

func NewGetImportProgress(jobs jobReader) *GetImportProgress {
	return &GetImportProgress{jobs: jobs}
}

func (uc *GetImportProgress) Execute(ctx context.Context, jobID string) (JobSnapshot, error) {
	job, err := uc.jobs.GetByID(ctx, jobID)
	if err != nil {
		return JobSnapshot{}, err
	}
	return snapshotOf(job), nil
}

// StreamEvent carries either a job snapshot or a transient error message.
type StreamEvent struct {
	Snapshot *JobSnapshot
	Error    string
}

type ProgressStreamerConfig struct {
	Interval     time.Duration
	ErrorBackoff time.Duration
}

// ProgressStreamer drives one long-lived progress stream per call. It
// re-reads the ledger each interval and suppresses events whose
// (progress, status) pair did not change, but always emits a final snapshot
// when the job reaches a terminal status.
type ProgressStreamer struct {
	jobs jobReader
	cfg  ProgressStreamerConfig
	log  *zap.Logger
}

func NewProgressStreamer(jobs jobReader, cfg ProgressStreamerConfig, log *zap.Logger) *ProgressStreamer {
	if cfg.Interval <= 0 {
		cfg.Interval = 50 * time.Millisecond
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ProgressStreamer{jobs: jobs, cfg: cfg, log: log}
}

// Stream blocks until the job reaches a terminal status, emit fails, or ctx
// is cancelled (the consumer disconnected). Transient read failures are
// reported to the consumer and retried after a backoff.
func (s *ProgressStreamer) Stream(ctx context.Context, jobID string, emit func(StreamEvent) error) error {
	lastProgress := -1
	var lastStatus domain.ImportJobStatus

	for {
		job, err := s.jobs.GetByID(ctx, jobID)
		if err != nil {
			if errors.Is(err, domain.ErrJobNotFound) {
				return emit(StreamEvent{Error: "Job not found"})
			}

			s.log.Warn("progress read failed",
				zap.String("job_id", jobID),
				zap.Error(err))
			if emitErr := emit(StreamEvent{Error: err.Error()}); emitErr != nil {
				return emitErr
			}
			if !sleepWithContext(ctx, s.cfg.ErrorBackoff) {
				return ctx.Err()
			}
			continue
		}

		changed := job.Progress != lastProgress || job.Status != lastStatus
		if changed || job.Status.Terminal() {
			snapshot := snapshotOf(job)
			if err := emit(StreamEvent{Snapshot: &snapshot}); err != nil {
				return err
			}
			lastProgress = job.Progress
			lastStatus = job.Status
		}

		if job.Status.Terminal() {
			return nil
		}

		if !sleepWithContext(ctx, s.cfg.Interval) {
			return ctx.Err()
		}
	}
}
