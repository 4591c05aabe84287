package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/blogicum/backend/internal/admin"
)

type AdminHandler struct {
	site *admin.Site
}

func NewAdminHandler(site *admin.Site) *AdminHandler {
	return &AdminHandler{site: site}
}

func (h *AdminHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"models":              h.site.Index(),
		"empty_value_display": admin.EmptyValueDisplay,
	})
}

// List renders a model's changelist. Query parameters other than q and page are filters.
func (h *AdminHandler) List(c *gin.Context) {
	page, err := h.site.List(c.Request.Context(), c.Param("model"), admin.ListQuery{
		Search:  c.Query("q"),
		Filters: c.Request.URL.Query(),
		Page:    c.Query("page"),
	})
	if err != nil {
		adminFail(c, err)
		return
	}
	c.JSON(http.StatusOK, pageJSON(page, func(row admin.Row) gin.H { return gin.H(row) }))
}

func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.site.Get(c.Request.Context(), c.Param("model"), id)
	if err != nil {
		adminFail(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *AdminHandler) Create(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	record, err := h.site.Create(c.Request.Context(), c.Param("model"), body)
	if err != nil {
		adminFail(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Patch applies an inline edit of the model's editable columns.
func (h *AdminHandler) Patch(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	record, err := h.site.Patch(c.Request.Context(), c.Param("model"), id, body)
	if err != nil {
		adminFail(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.site.Delete(c.Request.Context(), c.Param("model"), id); err != nil {
		adminFail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func adminFail(c *gin.Context, err error) {
	var fe *admin.FieldError
	switch {
	case errors.Is(err, admin.ErrUnknownModel), errors.Is(err, admin.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.As(err, &fe):
		c.JSON(http.StatusBadRequest, gin.H{"error": fe.Message, "field": fe.Field})
	default:
		internalError(c, err)
	}
}
