package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/blogicum/backend/internal/blog"
	"github.com/emilythestrangee/blogicum/backend/internal/middleware"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
	"github.com/emilythestrangee/blogicum/backend/internal/routes"
)

type CommentHandler struct {
	blog *blog.Service
}

func NewCommentHandler(svc *blog.Service) *CommentHandler {
	return &CommentHandler{blog: svc}
}

// commentParams reads the post and comment ids of a comment route.
func commentParams(c *gin.Context) (postID, commentID int, ok bool) {
	if postID, ok = idParam(c, "post_id"); !ok {
		return 0, 0, false
	}
	if commentID, ok = idParam(c, "comment_id"); !ok {
		return 0, 0, false
	}
	return postID, commentID, true
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID, ok := idParam(c, "post_id")
	if !ok {
		return
	}
	p := middleware.PrincipalFrom(c)
	if err := h.blog.CanComment(c.Request.Context(), p, postID); err != nil {
		fail(c, err, postID)
		return
	}
	var input models.CommentInput
	if !bindJSON(c, &input) {
		return
	}

	if _, err := h.blog.CreateComment(c.Request.Context(), p, postID, input); err != nil {
		fail(c, err, postID)
		return
	}
	middleware.Redirect(c, routes.PostDetail(postID))
}

func (h *CommentHandler) EditComment(c *gin.Context) {
	postID, commentID, ok := commentParams(c)
	if !ok {
		return
	}

	comment, err := h.blog.EditComment(c.Request.Context(), middleware.PrincipalFrom(c), postID, commentID)
	if err != nil {
		fail(c, err, postID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":      comment.ID,
		"post_id": comment.PostID,
		"text":    comment.Text,
	})
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	postID, commentID, ok := commentParams(c)
	if !ok {
		return
	}
	p := middleware.PrincipalFrom(c)
	if err := h.blog.CanUpdateComment(c.Request.Context(), p, postID, commentID); err != nil {
		fail(c, err, postID)
		return
	}
	var input models.CommentInput
	if !bindJSON(c, &input) {
		return
	}

	if _, err := h.blog.UpdateComment(c.Request.Context(), p, postID, commentID, input); err != nil {
		fail(c, err, postID)
		return
	}
	middleware.Redirect(c, routes.PostDetail(postID))
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	postID, commentID, ok := commentParams(c)
	if !ok {
		return
	}

	if err := h.blog.DeleteComment(c.Request.Context(), middleware.PrincipalFrom(c), postID, commentID); err != nil {
		fail(c, err, postID)
		return
	}
	middleware.Redirect(c, routes.PostDetail(postID))
}
