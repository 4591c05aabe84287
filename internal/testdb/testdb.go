// Package testdb opens migrated in-memory SQLite databases and creates fixtures for tests.
package testdb

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

// New returns a fresh, migrated database that lives for the duration of the test.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:?_foreign_keys=on"), logger.Silent)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql.DB: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func User(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "!"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("creating user %q: %v", username, err)
	}
	return user
}

func Category(t testing.TB, db *gorm.DB, slug string, published bool) *models.Category {
	t.Helper()
	category := &models.Category{
		Title:       "Category " + slug,
		Description: "About " + slug,
		Slug:        slug,
		IsPublished: published,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("creating category %q: %v", slug, err)
	}
	return category
}

func Location(t testing.TB, db *gorm.DB, name string, published bool) *models.Location {
	t.Helper()
	location := &models.Location{Name: name, IsPublished: published}
	if err := db.Create(location).Error; err != nil {
		t.Fatalf("creating location %q: %v", name, err)
	}
	return location
}

// PostOpts describes a fixture post. Zero values produce an unpublished,
// uncategorised post dated now.
type PostOpts struct {
	Title     string
	Author    *models.User
	Category  *models.Category
	Location  *models.Location
	Published bool
	PubDate   time.Time
}

func Post(t testing.TB, db *gorm.DB, opts PostOpts) *models.Post {
	t.Helper()
	if opts.Author == nil {
		t.Fatalf("fixture post %q needs an author", opts.Title)
	}
	if opts.Title == "" {
		opts.Title = "Untitled"
	}
	if opts.PubDate.IsZero() {
		opts.PubDate = time.Now().UTC()
	}

	post := &models.Post{
		Title:       opts.Title,
		Text:        "Text of " + opts.Title,
		PubDate:     opts.PubDate.UTC(),
		IsPublished: opts.Published,
		AuthorID:    opts.Author.ID,
	}
	if opts.Category != nil {
		post.CategoryID = &opts.Category.ID
	}
	if opts.Location != nil {
		post.LocationID = &opts.Location.ID
	}
	if err := db.Omit("Author", "Category", "Location").Create(post).Error; err != nil {
		t.Fatalf("creating post %q: %v", opts.Title, err)
	}
	return post
}

func Comment(t testing.TB, db *gorm.DB, post *models.Post, author *models.User, text string) *models.Comment {
	t.Helper()
	comment := &models.Comment{Text: text, PostID: post.ID, AuthorID: author.ID}
	if err := db.Omit("Author", "Post").Create(comment).Error; err != nil {
		t.Fatalf("creating comment: %v", err)
	}
	return comment
}

// CommentCount counts the stored comments of a post.
func CommentCount(t testing.TB, db *gorm.DB, postID int) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&n).Error; err != nil {
		t.Fatalf("counting comments: %v", err)
	}
	return n
}
