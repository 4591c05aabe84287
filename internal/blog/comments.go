package blog

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/logging"
	"github.com/emilythestrangee/blogicum/backend/internal/metrics"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

// CreateComment adds p's comment to a post p is allowed to see.
func (s *Service) CreateComment(ctx context.Context, p Principal, postID int, in models.CommentInput) (*models.Comment, error) {
	post, err := s.commentablePost(ctx, p, postID)
	if err != nil {
		return nil, err
	}

	text, err := cleanText("text", in.Text)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		Text:     text,
		PostID:   post.ID,
		AuthorID: p.UserID,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	logging.AddToEvent(ctx, slog.Int("comment_id", comment.ID))
	return &comment, nil
}

// CanComment reports whether p may comment on the post: it must exist and be
// visible to p.
func (s *Service) CanComment(ctx context.Context, p Principal, postID int) error {
	_, err := s.commentablePost(ctx, p, postID)
	return err
}

func (s *Service) commentablePost(ctx context.Context, p Principal, postID int) (*models.Post, error) {
	if !p.Authenticated() {
		return nil, ErrAnonymous
	}

	var post models.Post
	err := s.db.WithContext(ctx).Preload("Category").Take(&post, postID).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading post %d: %w", postID, err)
	}
	if !CanView(p, &post, s.clock.NowUtc()) {
		metrics.HiddenPostLookups.Inc()
		return nil, ErrNotFound
	}
	return &post, nil
}

// EditComment returns the comment for its author's edit form.
func (s *Service) EditComment(ctx context.Context, p Principal, postID, commentID int) (*models.Comment, error) {
	return s.authoredComment(ctx, p, postID, commentID, "edit")
}

// CanUpdateComment locates a comment under its post and applies the ownership guard.
func (s *Service) CanUpdateComment(ctx context.Context, p Principal, postID, commentID int) error {
	_, err := s.authoredComment(ctx, p, postID, commentID, "update")
	return err
}

func (s *Service) UpdateComment(ctx context.Context, p Principal, postID, commentID int, in models.CommentInput) (*models.Comment, error) {
	comment, err := s.authoredComment(ctx, p, postID, commentID, "update")
	if err != nil {
		return nil, err
	}
	text, err := cleanText("text", in.Text)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(comment).Update("text", text).Error; err != nil {
		return nil, fmt.Errorf("updating comment %d: %w", commentID, err)
	}
	return comment, nil
}

func (s *Service) DeleteComment(ctx context.Context, p Principal, postID, commentID int) error {
	comment, err := s.authoredComment(ctx, p, postID, commentID, "delete")
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(comment).Error; err != nil {
		return fmt.Errorf("deleting comment %d: %w", commentID, err)
	}
	return nil
}

// authoredComment locates a comment under its post and applies the ownership guard.
func (s *Service) authoredComment(ctx context.Context, p Principal, postID, commentID int, action string) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", commentID, postID).
		Take(&comment).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading comment %d: %w", commentID, err)
	}

	if !p.Owns(comment.AuthorID) {
		metrics.OwnershipDenials.WithLabelValues("comment", action).Inc()
		logging.AddToEvent(ctx, slog.String("outcome", "not_author"))
		return nil, ErrNotAuthor
	}
	return &comment, nil
}

func (s *Service) comments(ctx context.Context, postID int) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("listing comments of post %d: %w", postID, err)
	}
	return comments, nil
}
