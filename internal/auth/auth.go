// Package auth registers and logs in users and turns bearer tokens into principals.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/emilythestrangee/blogicum/backend/internal/blog"
	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/logging"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	db     *gorm.DB
	tokens *Tokens
	cost   int
}

func NewService(db *gorm.DB, tokens *Tokens) *Service {
	return &Service{db: db, tokens: tokens, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

// Register creates a regular account and returns it with a fresh token.
func (s *Service) Register(ctx context.Context, in models.RegisterRequest) (*models.AuthResponse, error) {
	user, err := s.CreateUser(ctx, in.Username, in.Email, in.Password, false)
	if err != nil {
		return nil, err
	}
	return s.respond(user, "User registered successfully")
}

func (s *Service) Login(ctx context.Context, in models.LoginRequest) (*models.AuthResponse, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", in.Username).Take(&user).Error
	if database.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("loading user %q: %w", in.Username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		logging.AddToEvent(ctx, slog.String("outcome", "bad_password"))
		return nil, ErrInvalidCredentials
	}
	return s.respond(&user, "Login successful")
}

// CreateUser stores a new account with a bcrypt-hashed password.
func (s *Service) CreateUser(ctx context.Context, username, email, password string, staff bool) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &blog.ValidationError{Field: "username", Message: "username is required"}
	}

	var taken int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&taken).Error; err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if taken > 0 {
		return nil, blog.ErrDuplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := models.User{
		Username: username,
		Email:    strings.TrimSpace(email),
		Password: string(hash),
		IsStaff:  staff,
	}
	err = s.db.WithContext(ctx).Create(&user).Error
	if database.IsUniqueViolation(err) {
		return nil, blog.ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("creating user %q: %w", username, err)
	}

	logging.AddToEvent(ctx, slog.Int("user_id", user.ID))
	return &user, nil
}

// Resolve maps a bearer token to the principal it belongs to. Any token that is
// invalid, expired or names a deleted user resolves to the anonymous principal.
func (s *Service) Resolve(ctx context.Context, raw string) blog.Principal {
	if raw == "" {
		return blog.Principal{}
	}
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return blog.Principal{}
	}

	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "username", "is_staff").Take(&user, claims.UserID).Error; err != nil {
		if !database.IsNotFound(err) {
			logging.Get().Warn("resolving principal", slog.Int("user_id", claims.UserID), slog.Any("error", err))
		}
		return blog.Principal{}
	}
	return blog.Principal{UserID: user.ID, Username: user.Username, IsStaff: user.IsStaff}
}

// User loads the account behind p.
func (s *Service) User(ctx context.Context, p blog.Principal) (*models.User, error) {
	if !p.Authenticated() {
		return nil, blog.ErrAnonymous
	}
	var user models.User
	err := s.db.WithContext(ctx).Take(&user, p.UserID).Error
	if database.IsNotFound(err) {
		return nil, blog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading user %d: %w", p.UserID, err)
	}
	return &user, nil
}

func (s *Service) respond(user *models.User, message string) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: *user, Message: message}, nil
}
