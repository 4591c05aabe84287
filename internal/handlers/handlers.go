package handlers

import (
	"github.com/emilythestrangee/blogicum/backend/internal/admin"
	"github.com/emilythestrangee/blogicum/backend/internal/auth"
	"github.com/emilythestrangee/blogicum/backend/internal/blog"
)

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Post     *PostHandler
	Category *CategoryHandler
	Comment  *CommentHandler
	User     *UserHandler
	Admin    *AdminHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(blogSvc *blog.Service, authSvc *auth.Service, site *admin.Site) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(authSvc),
		Post:     NewPostHandler(blogSvc),
		Category: NewCategoryHandler(blogSvc),
		Comment:  NewCommentHandler(blogSvc),
		User:     NewUserHandler(blogSvc),
		Admin:    NewAdminHandler(site),
	}
}
