package catalog

import "time"

type ImportJobStatus string

const (
	JobPending    ImportJobStatus = "pending"
	JobProcessing ImportJobStatus = "processing"
	JobCompleted  ImportJobStatus = "completed"
	JobFailed     ImportJobStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s ImportJobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

type ImportJob struct {
	ID               string
	Filename         string
	SourcePath       string
	Status           ImportJobStatus
	Progress         int
	TotalRecords     int64
	ProcessedRecords int64
	ErrorMessage     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ChunkProgress is the ledger update persisted together with a chunk commit.
type ChunkProgress struct {
	ProcessedRecords int64
	Progress         int
}

type ChunkResult struct {
	CreatedCount int64
	UpdatedCount int64
}

// ProgressPercent computes floor(processed/total*100), 0 for an empty file.
func ProgressPercent(processed, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(processed * 100 / total)
}
