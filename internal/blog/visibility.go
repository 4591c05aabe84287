package blog

import (
	"time"

	"gorm.io/gorm"

	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

// IsVisible reports whether post is publicly listable at now. The post's category
// must already be loaded; a post without one is never visible.
func IsVisible(post *models.Post, now time.Time) bool {
	return post.IsPublished &&
		post.Category != nil &&
		post.Category.IsPublished &&
		!post.PubDate.After(now)
}

// CanView reports whether p may open the post's detail page.
func CanView(p Principal, post *models.Post, now time.Time) bool {
	return p.Owns(post.AuthorID) || IsVisible(post, now)
}

// Published restricts a posts query to the rows IsVisible accepts.
func Published(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("posts.is_published = ? AND categories.is_published = ? AND posts.pub_date <= ?", true, true, now)
	}
}

func byAuthor(authorID int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.author_id = ?", authorID)
	}
}

func inCategory(categoryID int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.category_id = ?", categoryID)
	}
}

func withCommentCount(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count")
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("posts.pub_date DESC").Order("posts.id DESC")
}

// withRelations fetches authors, categories and locations in one batched query each.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Category").Preload("Location")
}
