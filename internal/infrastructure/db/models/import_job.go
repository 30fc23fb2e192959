package models

import "time"

type ImportJob struct {
	ID               string  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Filename         string  `gorm:"size:255;not null"`
	SourcePath       string  `gorm:"type:text;not null"`
	Status           string  `gorm:"type:text;not null"`
	Progress         int     `gorm:"not null;default:0"`
	TotalRecords     int64   `gorm:"not null;default:0"`
	ProcessedRecords int64   `gorm:"not null;default:0"`
	ErrorMessage     *string `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (ImportJob) TableName() string {
	return "import_jobs"
}
