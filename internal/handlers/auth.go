package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/blogicum/backend/internal/auth"
	"github.com/emilythestrangee/blogicum/backend/internal/middleware"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: svc}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if !bindJSON(c, &input) {
		return
	}

	resp, err := h.auth.Register(c.Request.Context(), input)
	if err != nil {
		fail(c, err, 0)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": resp.Message,
		"token":   resp.Token,
		"user":    userJSON(&resp.User),
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if !bindJSON(c, &input) {
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		fail(c, err, 0)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": resp.Message,
		"token":   resp.Token,
		"user":    userJSON(&resp.User),
	})
}

// GetMe returns the current user
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, err := h.auth.User(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		fail(c, err, 0)
		return
	}
	c.JSON(http.StatusOK, userJSON(user))
}
