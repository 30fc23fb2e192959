package models

import "time"

type Webhook struct {
	ID        int64   `gorm:"primaryKey"`
	URL       string  `gorm:"size:500;not null"`
	EventType string  `gorm:"size:100;not null;index"`
	Enabled   bool    `gorm:"not null;default:true"`
	Secret    *string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Webhook) TableName() string {
	return "webhooks"
}
