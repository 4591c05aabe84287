package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/blogicum/backend/internal/blog"
	"github.com/emilythestrangee/blogicum/backend/internal/middleware"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
	"github.com/emilythestrangee/blogicum/backend/internal/routes"
)

type UserHandler struct {
	blog *blog.Service
}

func NewUserHandler(svc *blog.Service) *UserHandler {
	return &UserHandler{blog: svc}
}

// GetUserProfile returns a user's profile and posts.
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	profile, err := h.blog.Profile(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("username"), c.Query("page"))
	if err != nil {
		fail(c, err, 0)
		return
	}

	out := pageJSON(profile.Posts, postJSON)
	out["user"] = gin.H{
		"id":         profile.User.ID,
		"username":   profile.User.Username,
		"first_name": profile.User.FirstName,
		"last_name":  profile.User.LastName,
		"created_at": profile.User.CreatedAt,
	}
	c.JSON(http.StatusOK, out)
}

// UpdateUserProfile changes the current user's account details.
func (h *UserHandler) UpdateUserProfile(c *gin.Context) {
	var input models.UpdateProfileRequest
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.blog.UpdateProfile(c.Request.Context(), middleware.PrincipalFrom(c), input)
	if err != nil {
		fail(c, err, 0)
		return
	}
	middleware.Redirect(c, routes.Profile(user.Username))
}
