package models

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title" binding:"required,max=256"`
	Text        string    `gorm:"not null" json:"text" binding:"required"`
	PubDate     time.Time `gorm:"not null;index" json:"pub_date" binding:"required"`
	IsPublished bool      `gorm:"not null" json:"is_published"`

	AuthorID   int       `gorm:"not null;index" json:"author_id" binding:"required"`
	Author     User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-" binding:"-"`
	CategoryID *int      `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"constraint:OnDelete:SET NULL" json:"-" binding:"-"`
	LocationID *int      `json:"location_id"`
	Location   *Location `gorm:"constraint:OnDelete:SET NULL" json:"-" binding:"-"`

	// Populated only by queries that select the comment_count annotation.
	CommentCount int64 `gorm:"->;-:migration" json:"comment_count"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeDelete removes the post's comments.
func (p *Post) BeforeDelete(tx *gorm.DB) error {
	return tx.Where("post_id = ?", p.ID).Delete(&Comment{}).Error
}

// PostInput carries the user-editable fields of a post.
type PostInput struct {
	Title       string     `json:"title" binding:"required"`
	Text        string     `json:"text" binding:"required"`
	PubDate     *time.Time `json:"pub_date"`
	IsPublished *bool      `json:"is_published"`
	CategoryID  *int       `json:"category_id"`
	LocationID  *int       `json:"location_id"`
}
