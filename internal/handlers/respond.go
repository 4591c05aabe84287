package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/emilythestrangee/blogicum/backend/internal/auth"
	"github.com/emilythestrangee/blogicum/backend/internal/blog"
	"github.com/emilythestrangee/blogicum/backend/internal/logging"
	"github.com/emilythestrangee/blogicum/backend/internal/middleware"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
	"github.com/emilythestrangee/blogicum/backend/internal/pagination"
	"github.com/emilythestrangee/blogicum/backend/internal/routes"
	"github.com/emilythestrangee/blogicum/backend/internal/validation"
)

// fail maps a service error to its response. Ownership failures send the
// principal back to the post's detail page.
func fail(c *gin.Context, err error, postID int) {
	var verr *blog.ValidationError
	switch {
	case errors.Is(err, blog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, blog.ErrNotAuthor):
		middleware.Redirect(c, routes.PostDetail(postID))
	case errors.Is(err, blog.ErrAnonymous):
		middleware.Redirect(c, routes.LoginNext(c.Request.URL.RequestURI()))
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, blog.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "A user with that username already exists", "field": "username"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	default:
		internalError(c, err)
	}
}

func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	logging.Get().ErrorContext(c.Request.Context(), "request failed",
		slog.String("route", c.FullPath()),
		slog.Any("error", err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// bindJSON decodes the body into dst and answers 400 when it is malformed or invalid.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		field, message := validation.Message(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "field": field})
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
	return false
}

// idParam reads a numeric path parameter. Anything else cannot name a row.
func idParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return id, true
}

func pageJSON[T any](page pagination.Page[T], render func(T) gin.H) gin.H {
	results := make([]gin.H, 0, len(page.Items))
	for _, item := range page.Items {
		results = append(results, render(item))
	}
	return gin.H{
		"count":         page.Total,
		"num_pages":     page.NumPages(),
		"page":          page.Number,
		"has_next":      page.HasNext(),
		"has_previous":  page.HasPrevious(),
		"previous_page": page.PreviousPage(),
		"next_page":     page.NextPage(),
		"results":       results,
	}
}

func postJSON(post models.Post) gin.H {
	out := gin.H{
		"id":            post.ID,
		"title":         post.Title,
		"text":          post.Text,
		"pub_date":      post.PubDate,
		"is_published":  post.IsPublished,
		"created_at":    post.CreatedAt,
		"comment_count": post.CommentCount,
		"author":        userRef(post.Author),
		"category":      nil,
		"location":      nil,
	}
	if post.Category != nil {
		out["category"] = gin.H{
			"id":    post.Category.ID,
			"title": post.Category.Title,
			"slug":  post.Category.Slug,
		}
	}
	if post.Location != nil {
		out["location"] = gin.H{
			"id":   post.Location.ID,
			"name": post.Location.Name,
		}
	}
	return out
}

// postFormJSON renders the editable fields of a post.
func postFormJSON(post *models.Post) gin.H {
	return gin.H{
		"id":           post.ID,
		"title":        post.Title,
		"text":         post.Text,
		"pub_date":     post.PubDate,
		"is_published": post.IsPublished,
		"category_id":  post.CategoryID,
		"location_id":  post.LocationID,
	}
}

func commentJSON(comment models.Comment) gin.H {
	return gin.H{
		"id":         comment.ID,
		"text":       comment.Text,
		"post_id":    comment.PostID,
		"created_at": comment.CreatedAt,
		"author":     userRef(comment.Author),
	}
}

func userRef(user models.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"username": user.Username,
	}
}

func userJSON(user *models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
		"is_staff":   user.IsStaff,
		"created_at": user.CreatedAt,
	}
}
