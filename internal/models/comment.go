package models

import "time"

type Comment struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Text     string `gorm:"not null" json:"text" binding:"required"`
	PostID   int    `gorm:"not null;index" json:"post_id" binding:"required"`
	Post     *Post  `gorm:"constraint:OnDelete:CASCADE" json:"-" binding:"-"`
	AuthorID int    `gorm:"not null" json:"author_id" binding:"required"`
	Author   User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-" binding:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type CommentInput struct {
	Text string `json:"text" binding:"required"`
}
