package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/logging"
	"github.com/emilythestrangee/blogicum/backend/internal/metrics"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
	"github.com/emilythestrangee/blogicum/backend/internal/pagination"
)

type PostPage = pagination.Page[models.Post]

type CategoryListing struct {
	Category models.Category
	Posts    PostPage
}

type PostDetail struct {
	Post     models.Post
	Comments []models.Comment
}

// ListIndex returns the page of publicly visible posts, newest first. A page
// that does not exist is ErrNotFound.
func (s *Service) ListIndex(ctx context.Context, page string) (PostPage, error) {
	return s.listPosts(ctx, page, strictPage, Published(s.clock.NowUtc()))
}

// ListCategory returns a published category and its visible posts.
func (s *Service) ListCategory(ctx context.Context, slug, page string) (*CategoryListing, error) {
	var category models.Category
	err := s.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).
		Take(&category).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading category %q: %w", slug, err)
	}

	posts, err := s.listPosts(ctx, page, lenientPage, Published(s.clock.NowUtc()), inCategory(category.ID))
	if err != nil {
		return nil, err
	}
	return &CategoryListing{Category: category, Posts: posts}, nil
}

// PostDetail returns a post with its comments. A post hidden from p is reported
// as ErrNotFound, the same as a missing one.
func (s *Service) PostDetail(ctx context.Context, p Principal, postID int) (*PostDetail, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Scopes(withCommentCount, withRelations).
		Where("posts.id = ?", postID).
		Take(&post).Error
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

	comments, err := s.comments(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments}, nil
}

// CreatePost stores a new post authored by p.
func (s *Service) CreatePost(ctx context.Context, p Principal, in models.PostInput) (*models.Post, error) {
	if !p.Authenticated() {
		return nil, ErrAnonymous
	}
	title, text, err := cleanPost(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, in); err != nil {
		return nil, err
	}

	post := models.Post{
		Title:       title,
		Text:        text,
		PubDate:     s.clock.NowUtc(),
		IsPublished: true,
		AuthorID:    p.UserID,
		CategoryID:  in.CategoryID,
		LocationID:  in.LocationID,
	}
	if in.PubDate != nil {
		post.PubDate = in.PubDate.UTC()
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	logging.AddToEvent(ctx, slog.Int("post_id", post.ID))
	return &post, nil
}

// EditPost returns the post for its author's edit form.
func (s *Service) EditPost(ctx context.Context, p Principal, postID int) (*models.Post, error) {
	post, err := s.authoredPost(ctx, p, postID, "edit")
	if err != nil {
		return nil, err
	}
	return post, nil
}

// CanUpdatePost locates a post and applies the ownership guard without changing
// it, so callers can refuse a request before reading its body.
func (s *Service) CanUpdatePost(ctx context.Context, p Principal, postID int) error {
	_, err := s.authoredPost(ctx, p, postID, "update")
	return err
}

// UpdatePost replaces the editable fields of p's post. A nil PubDate or IsPublished
// keeps the stored value; nil CategoryID or LocationID clears the reference.
func (s *Service) UpdatePost(ctx context.Context, p Principal, postID int, in models.PostInput) (*models.Post, error) {
	post, err := s.authoredPost(ctx, p, postID, "update")
	if err != nil {
		return nil, err
	}
	title, text, err := cleanPost(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, in); err != nil {
		return nil, err
	}

	changes := map[string]any{
		"title":       title,
		"text":        text,
		"category_id": nullableID(in.CategoryID),
		"location_id": nullableID(in.LocationID),
	}
	if in.PubDate != nil {
		changes["pub_date"] = in.PubDate.UTC()
	}
	if in.IsPublished != nil {
		changes["is_published"] = *in.IsPublished
	}

	if err := s.db.WithContext(ctx).Model(post).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("updating post %d: %w", postID, err)
	}
	return post, nil
}

// DeletePost removes p's post together with its comments.
func (s *Service) DeletePost(ctx context.Context, p Principal, postID int) error {
	post, err := s.authoredPost(ctx, p, postID, "delete")
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(post).Error
	})
	if err != nil {
		return fmt.Errorf("deleting post %d: %w", postID, err)
	}
	return nil
}

// authoredPost locates a post and applies the ownership guard.
func (s *Service) authoredPost(ctx context.Context, p Principal, postID int, action string) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Take(&post, postID).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading post %d: %w", postID, err)
	}

	if !p.Owns(post.AuthorID) {
		metrics.OwnershipDenials.WithLabelValues("post", action).Inc()
		logging.AddToEvent(ctx, slog.String("outcome", "not_author"))
		return nil, ErrNotAuthor
	}
	return &post, nil
}

func cleanPost(in models.PostInput) (title, text string, err error) {
	if title, err = cleanTitle(in.Title); err != nil {
		return "", "", err
	}
	if text, err = cleanText("text", in.Text); err != nil {
		return "", "", err
	}
	return title, text, nil
}

func (s *Service) checkReferences(ctx context.Context, in models.PostInput) error {
	if in.CategoryID != nil {
		if err := s.exists(ctx, &models.Category{}, *in.CategoryID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return &ValidationError{Field: "category_id", Message: "unknown category"}
			}
			return err
		}
	}
	if in.LocationID != nil {
		if err := s.exists(ctx, &models.Location{}, *in.LocationID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return &ValidationError{Field: "location_id", Message: "unknown location"}
			}
			return err
		}
	}
	return nil
}

func (s *Service) exists(ctx context.Context, model any, id int) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("checking reference %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// pageResolver turns the raw ?page= value into the window to fetch.
type pageResolver func(raw string, total int64, perPage int) (pagination.Params, error)

// lenientPage falls back to the first or last page instead of failing.
func lenientPage(raw string, total int64, perPage int) (pagination.Params, error) {
	return pagination.Resolve(raw, total, perPage), nil
}

func strictPage(raw string, total int64, perPage int) (pagination.Params, error) {
	params, err := pagination.ResolveStrict(raw, total, perPage)
	if errors.Is(err, pagination.ErrInvalidPage) {
		return params, ErrNotFound
	}
	return params, err
}

func (s *Service) listPosts(ctx context.Context, page string, resolve pageResolver, scopes ...func(*gorm.DB) *gorm.DB) (PostPage, error) {
	query := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Post{}).Scopes(scopes...)
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return PostPage{}, fmt.Errorf("counting posts: %w", err)
	}

	params, err := resolve(page, total, s.perPage)
	if err != nil {
		return PostPage{}, err
	}

	var posts []models.Post
	err = query().
		Scopes(withCommentCount, newestFirst, withRelations).
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&posts).Error
	if err != nil {
		return PostPage{}, fmt.Errorf("listing posts: %w", err)
	}

	return pagination.New(posts, params, total), nil
}

func nullableID(id *int) any {
	if id == nil {
		return nil
	}
	return *id
}
