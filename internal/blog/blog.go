// Package blog holds the publishing rules: which posts the public may see, and
// which principal may change a post or comment.
package blog

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/blogicum/backend/internal/clock"
	"github.com/emilythestrangee/blogicum/backend/internal/pagination"
)

var (
	// ErrNotFound covers both missing rows and posts hidden from the principal.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthor is returned when a principal tries to change someone else's resource.
	ErrNotAuthor = errors.New("principal is not the author")
	ErrDuplicate = errors.New("already exists")
	ErrAnonymous = errors.New("anonymous principal")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Principal is the user a request acts for. The zero value is anonymous.
type Principal struct {
	UserID   int
	Username string
	IsStaff  bool
}

func (p Principal) Authenticated() bool {
	return p.UserID != 0
}

// Owns reports whether p authored the resource with the given author id.
func (p Principal) Owns(authorID int) bool {
	return p.Authenticated() && p.UserID == authorID
}

type Service struct {
	db      *gorm.DB
	clock   clock.Clock
	perPage int
}

func NewService(db *gorm.DB, clk clock.Clock, perPage int) *Service {
	if perPage < 1 {
		perPage = pagination.DefaultPerPage
	}
	return &Service{db: db, clock: clk, perPage: perPage}
}
