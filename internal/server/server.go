package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/emilythestrangee/blogicum/backend/internal/admin"
	"github.com/emilythestrangee/blogicum/backend/internal/auth"
	"github.com/emilythestrangee/blogicum/backend/internal/blog"
	"github.com/emilythestrangee/blogicum/backend/internal/clock"
	"github.com/emilythestrangee/blogicum/backend/internal/config"
	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/handlers"
	"github.com/emilythestrangee/blogicum/backend/internal/middleware"
	"github.com/emilythestrangee/blogicum/backend/internal/routes"
	"github.com/emilythestrangee/blogicum/backend/internal/validation"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	auth    *auth.Service
	handler *handlers.Handler
	limiter *middleware.RateLimiter
}

// New wires the services and handlers around an open database.
func New(cfg *config.Config, db database.Service, clk clock.Clock) (*Server, error) {
	validation.Register()

	gormDB := db.GetDB()
	blogSvc := blog.NewService(gormDB, clk, cfg.PostsPerPage)
	authSvc := auth.NewService(gormDB, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL, clk))
	site, err := admin.NewBlogSite(gormDB)
	if err != nil {
		return nil, fmt.Errorf("registering admin models: %w", err)
	}

	return &Server{
		cfg:     cfg,
		db:      db,
		auth:    authSvc,
		handler: handlers.NewHandler(blogSvc, authSvc, site),
		limiter: middleware.NewRateLimiter(rate.Limit(5), 10),
	}, nil
}

// Auth exposes the account service for the CLI.
func (s *Server) Auth() *auth.Service {
	return s.auth
}

func (s *Server) Limiter() *middleware.RateLimiter {
	return s.limiter
}

// HTTPServer returns the configured http.Server with gzip-compressed responses.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         "0.0.0.0:" + s.cfg.Port,
		Handler:      gzhttp.GzipHandler(s.RegisterRoutes()),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Location", "X-Request-ID"},
		AllowCredentials: !allowsAll(s.cfg.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	r.GET(routes.Health, func(c *gin.Context) {
		stats := s.db.Health(c.Request.Context())
		status := http.StatusOK
		if stats["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, stats)
	})
	r.GET(routes.Metrics, gin.WrapH(promhttp.Handler()))

	h := s.handler
	api := r.Group(routes.API)
	api.Use(middleware.Authenticate(s.auth))
	{
		// Auth routes (public)
		limited := api.Group("", s.limiter.Handler())
		limited.POST("/register", h.Auth.Register)
		limited.POST("/login", h.Auth.Login)

		// Public reads
		api.GET("/posts", h.Post.GetPosts)
		api.GET("/posts/:post_id", h.Post.GetPost)
		api.GET("/category/:slug", h.Category.GetCategoryPosts)
		api.GET("/profile/:username", h.User.GetUserProfile)

		// Protected routes (authentication required)
		protected := api.Group("", middleware.RequireAuth())
		{
			protected.GET("/me", h.Auth.GetMe)

			protected.POST("/posts", h.Post.CreatePost)
			protected.GET("/posts/:post_id/edit", h.Post.EditPost)
			protected.PUT("/posts/:post_id", h.Post.UpdatePost)
			protected.DELETE("/posts/:post_id", h.Post.DeletePost)

			protected.POST("/posts/:post_id/comments", h.Comment.CreateComment)
			protected.GET("/posts/:post_id/comments/:comment_id/edit", h.Comment.EditComment)
			protected.PUT("/posts/:post_id/comments/:comment_id", h.Comment.UpdateComment)
			protected.DELETE("/posts/:post_id/comments/:comment_id", h.Comment.DeleteComment)

			protected.PUT("/profile", h.User.UpdateUserProfile)
		}

		staff := api.Group("/admin", middleware.RequireStaff())
		{
			staff.GET("", h.Admin.Index)
			staff.GET("/:model", h.Admin.List)
			staff.GET("/:model/:id", h.Admin.Get)
			staff.POST("/:model", h.Admin.Create)
			staff.PATCH("/:model/:id", h.Admin.Patch)
			staff.DELETE("/:model/:id", h.Admin.Delete)
		}
	}

	return r
}

func allowsAll(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
