package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/blogicum/backend/internal/blog"
	"github.com/emilythestrangee/blogicum/backend/internal/middleware"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
	"github.com/emilythestrangee/blogicum/backend/internal/routes"
)

type PostHandler struct {
	blog *blog.Service
}

func NewPostHandler(svc *blog.Service) *PostHandler {
	return &PostHandler{blog: svc}
}

// GetPosts returns the index listing.
func (h *PostHandler) GetPosts(c *gin.Context) {
	page, err := h.blog.ListIndex(c.Request.Context(), c.Query("page"))
	if err != nil {
		fail(c, err, 0)
		return
	}
	c.JSON(http.StatusOK, pageJSON(page, postJSON))
}

// GetPost returns a single post with its comments
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, ok := idParam(c, "post_id")
	if !ok {
		return
	}

	detail, err := h.blog.PostDetail(c.Request.Context(), middleware.PrincipalFrom(c), postID)
	if err != nil {
		fail(c, err, postID)
		return
	}

	comments := make([]gin.H, 0, len(detail.Comments))
	for _, comment := range detail.Comments {
		comments = append(comments, commentJSON(comment))
	}
	out := postJSON(detail.Post)
	out["comments"] = comments
	c.JSON(http.StatusOK, out)
}

// CreatePost creates a new post and sends the author to their profile.
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input models.PostInput
	if !bindJSON(c, &input) {
		return
	}

	p := middleware.PrincipalFrom(c)
	if _, err := h.blog.CreatePost(c.Request.Context(), p, input); err != nil {
		fail(c, err, 0)
		return
	}
	middleware.Redirect(c, routes.Profile(p.Username))
}

// EditPost returns the post's form values to its author.
func (h *PostHandler) EditPost(c *gin.Context) {
	postID, ok := idParam(c, "post_id")
	if !ok {
		return
	}

	post, err := h.blog.EditPost(c.Request.Context(), middleware.PrincipalFrom(c), postID)
	if err != nil {
		fail(c, err, postID)
		return
	}
	c.JSON(http.StatusOK, postFormJSON(post))
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID, ok := idParam(c, "post_id")
	if !ok {
		return
	}
	p := middleware.PrincipalFrom(c)
	if err := h.blog.CanUpdatePost(c.Request.Context(), p, postID); err != nil {
		fail(c, err, postID)
		return
	}
	var input models.PostInput
	if !bindJSON(c, &input) {
		return
	}

	if _, err := h.blog.UpdatePost(c.Request.Context(), p, postID, input); err != nil {
		fail(c, err, postID)
		return
	}
	middleware.Redirect(c, routes.PostDetail(postID))
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, ok := idParam(c, "post_id")
	if !ok {
		return
	}

	if err := h.blog.DeletePost(c.Request.Context(), middleware.PrincipalFrom(c), postID); err != nil {
		fail(c, err, postID)
		return
	}
	middleware.Redirect(c, routes.Index)
}
