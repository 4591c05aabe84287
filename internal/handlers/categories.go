package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/blogicum/backend/internal/blog"
)

type CategoryHandler struct {
	blog *blog.Service
}

func NewCategoryHandler(svc *blog.Service) *CategoryHandler {
	return &CategoryHandler{blog: svc}
}

// GetCategoryPosts returns a published category with its visible posts.
func (h *CategoryHandler) GetCategoryPosts(c *gin.Context) {
	listing, err := h.blog.ListCategory(c.Request.Context(), c.Param("slug"), c.Query("page"))
	if err != nil {
		fail(c, err, 0)
		return
	}

	out := pageJSON(listing.Posts, postJSON)
	out["category"] = gin.H{
		"id":          listing.Category.ID,
		"title":       listing.Category.Title,
		"description": listing.Category.Description,
		"slug":        listing.Category.Slug,
	}
	c.JSON(http.StatusOK, out)
}
