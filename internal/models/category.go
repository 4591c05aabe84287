package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups posts. Posts in an unpublished category are hidden from public listings.
type Category struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title" binding:"required,max=256"`
	Description string    `gorm:"not null" json:"description" binding:"required"`
	Slug        string    `gorm:"size:64;uniqueIndex;not null" json:"slug" binding:"required,slug,max=64"`
	IsPublished bool      `gorm:"not null" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeDelete detaches posts from the category, mirroring ON DELETE SET NULL for
// dialects that do not enforce foreign keys.
func (c *Category) BeforeDelete(tx *gorm.DB) error {
	return tx.Model(&Post{}).Where("category_id = ?", c.ID).Update("category_id", nil).Error
}
