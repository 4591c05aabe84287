package models

import (
	"time"

	"gorm.io/gorm"
)

type Location struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:256;not null" json:"name" binding:"required,max=256"`
	IsPublished bool      `gorm:"not null" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

func (l *Location) BeforeDelete(tx *gorm.DB) error {
	return tx.Model(&Post{}).Where("location_id = ?", l.ID).Update("location_id", nil).Error
}
