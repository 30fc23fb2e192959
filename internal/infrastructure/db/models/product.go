package models

import "time"

type Product struct {
	ID          int64  `gorm:"primaryKey"`
	SKU         string `gorm:"size:255;not null;index"`
	Name        string `gorm:"size:500;not null"`
	Description string `gorm:"type:text"`
	Active      bool   `gorm:"not null;default:true;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Product) TableName() string {
	return "products"
}
