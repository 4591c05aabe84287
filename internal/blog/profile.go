package blog

import (
	"context"
	"fmt"
	"strings"

	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

type Profile struct {
	User  models.User
	Posts PostPage
}

// Profile returns a user and their posts. The owner sees every own post; anyone
// else sees only the visible ones.
func (s *Service) Profile(ctx context.Context, p Principal, username, page string) (*Profile, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading user %q: %w", username, err)
	}

	var posts PostPage
	if p.Owns(user.ID) {
		posts, err = s.listPosts(ctx, page, strictPage, byAuthor(user.ID))
	} else {
		posts, err = s.listPosts(ctx, page, strictPage, Published(s.clock.NowUtc()), byAuthor(user.ID))
	}
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Posts: posts}, nil
}

// UpdateProfile changes p's own account details.
func (s *Service) UpdateProfile(ctx context.Context, p Principal, in models.UpdateProfileRequest) (*models.User, error) {
	if !p.Authenticated() {
		return nil, ErrAnonymous
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, &ValidationError{Field: "username", Message: "username is required"}
	}

	var taken int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND id <> ?", username, p.UserID).
		Count(&taken).Error
	if err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if taken > 0 {
		return nil, &ValidationError{Field: "username", Message: "a user with that username already exists"}
	}

	var user models.User
	err = s.db.WithContext(ctx).Take(&user, p.UserID).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading user %d: %w", p.UserID, err)
	}

	err = s.db.WithContext(ctx).Model(&user).Updates(map[string]any{
		"username":   username,
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"email":      in.Email,
	}).Error
	if database.IsUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("updating user %d: %w", p.UserID, err)
	}

	user.Username = username
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = in.Email
	return &user, nil
}
