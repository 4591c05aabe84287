package blog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/blogicum/backend/internal/clock"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
	"github.com/emilythestrangee/blogicum/backend/internal/testdb"
)

type fixture struct {
	db       *gorm.DB
	svc      *Service
	clock    *clock.StubClock
	alice    *models.User
	bob      *models.User
	category *models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)
	clk := clock.NewStubClock(now)
	return &fixture{
		db:       db,
		svc:      NewService(db, clk, 10),
		clock:    clk,
		alice:    testdb.User(t, db, "alice"),
		bob:      testdb.User(t, db, "bob"),
		category: testdb.Category(t, db, "travel", true),
	}
}

func as(u *models.User) Principal {
	return Principal{UserID: u.ID, Username: u.Username}
}

func boolPtr(b bool) *bool { return &b }

func (f *fixture) reload(t *testing.T, id int) models.Post {
	t.Helper()
	var post models.Post
	require.NoError(t, f.db.Take(&post, id).Error)
	return post
}

func TestPostDetail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	visible := testdb.Post(t, f.db, testdb.PostOpts{Author: f.alice, Category: f.category, Published: true, PubDate: now.Add(-time.Hour)})
	future := testdb.Post(t, f.db, testdb.PostOpts{Author: f.alice, Category: f.category, Published: true, PubDate: now.Add(24 * time.Hour)})
	draft := testdb.Post(t, f.db, testdb.PostOpts{Author: f.alice, Category: f.category, Published: false, PubDate: now.Add(-time.Hour)})
	testdb.Comment(t, f.db, visible, f.bob, "nice")

	t.Run("visible post for anyone", func(t *testing.T) {
		detail, err := f.svc.PostDetail(ctx, Principal{}, visible.ID)
		require.NoError(t, err)
		assert.Equal(t, visible.ID, detail.Post.ID)
		assert.Equal(t, int64(1), detail.Post.CommentCount)
		require.Len(t, detail.Comments, 1)
		assert.Equal(t, "bob", detail.Comments[0].Author.Username)
	})

	t.Run("hidden posts are not found for others", func(t *testing.T) {
		for _, id := range []int{future.ID, draft.ID} {
			_, err := f.svc.PostDetail(ctx, Principal{}, id)
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = f.svc.PostDetail(ctx, as(f.bob), id)
			assert.ErrorIs(t, err, ErrNotFound)
		}
	})

	t.Run("author sees hidden posts", func(t *testing.T) {
		for _, id := range []int{future.ID, draft.ID} {
			detail, err := f.svc.PostDetail(ctx, as(f.alice), id)
			require.NoError(t, err)
			assert.Equal(t, id, detail.Post.ID)
		}
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := f.svc.PostDetail(ctx, as(f.alice), 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hidden := testdb.Category(t, f.db, "hidden", false)
	other := testdb.Category(t, f.db, "other", true)

	testdb.Post(t, f.db, testdb.PostOpts{Title: "in travel", Author: f.alice, Category: f.category, Published: true, PubDate: now.Add(-time.Hour)})
	testdb.Post(t, f.db, testdb.PostOpts{Title: "elsewhere", Author: f.alice, Category: other, Published: true, PubDate: now.Add(-time.Hour)})

	listing, err := f.svc.ListCategory(ctx, "travel", "")
	require.NoError(t, err)
	assert.Equal(t, "travel", listing.Category.Slug)
	require.Len(t, listing.Posts.Items, 1)
	assert.Equal(t, "in travel", listing.Posts.Items[0].Title)

	_, err = f.svc.ListCategory(ctx, hidden.Slug, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.ListCategory(ctx, "nope", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		post, err := f.svc.CreatePost(ctx, as(f.alice), models.PostInput{
			Title:      "  Hello <b>world</b>  ",
			Text:       "Body",
			CategoryID: &f.category.ID,
		})
		require.NoError(t, err)

		stored := f.reload(t, post.ID)
		assert.Equal(t, "Hello world", stored.Title)
		assert.Equal(t, f.alice.ID, stored.AuthorID)
		assert.True(t, stored.IsPublished)
		assert.True(t, stored.PubDate.Equal(now))
		require.NotNil(t, stored.CategoryID)
		assert.Equal(t, f.category.ID, *stored.CategoryID)
	})

	t.Run("explicit publication settings", func(t *testing.T) {
		tomorrow := now.Add(24 * time.Hour)
		post, err := f.svc.CreatePost(ctx, as(f.alice), models.PostInput{
			Title:       "Later",
			Text:        "Body",
			PubDate:     &tomorrow,
			IsPublished: boolPtr(false),
		})
		require.NoError(t, err)

		stored := f.reload(t, post.ID)
		assert.False(t, stored.IsPublished)
		assert.True(t, stored.PubDate.Equal(tomorrow))
		assert.Nil(t, stored.CategoryID)
	})

	t.Run("unknown category", func(t *testing.T) {
		missing := 4242
		_, err := f.svc.CreatePost(ctx, as(f.alice), models.PostInput{Title: "x", Text: "y", CategoryID: &missing})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "category_id", verr.Field)
	})

	t.Run("unknown location", func(t *testing.T) {
		missing := 4242
		_, err := f.svc.CreatePost(ctx, as(f.alice), models.PostInput{Title: "x", Text: "y", LocationID: &missing})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "location_id", verr.Field)
	})

	t.Run("stores plain text", func(t *testing.T) {
		post, err := f.svc.CreatePost(ctx, as(f.alice), models.PostInput{
			Title: `Tom & Jerry's "day"`,
			Text:  "a < b && c > d",
		})
		require.NoError(t, err)

		stored := f.reload(t, post.ID)
		assert.Equal(t, `Tom & Jerry's "day"`, stored.Title)
		assert.Equal(t, "a < b && c > d", stored.Text)
	})

	t.Run("title length is checked after stripping", func(t *testing.T) {
		post, err := f.svc.CreatePost(ctx, as(f.alice), models.PostInput{Title: strings.Repeat("&", 256), Text: "y"})
		require.NoError(t, err)
		assert.Len(t, f.reload(t, post.ID).Title, 256)

		_, err = f.svc.CreatePost(ctx, as(f.alice), models.PostInput{Title: strings.Repeat("x", 257), Text: "y"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Field)
	})

	t.Run("markup only is rejected", func(t *testing.T) {
		var count int64
		require.NoError(t, f.db.Model(&models.Post{}).Count(&count).Error)

		_, err := f.svc.CreatePost(ctx, as(f.alice), models.PostInput{Title: "<b></b>", Text: "y"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Field)

		_, err = f.svc.CreatePost(ctx, as(f.alice), models.PostInput{Title: "x", Text: "<script>x</script>"})
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "text", verr.Field)

		var after int64
		require.NoError(t, f.db.Model(&models.Post{}).Count(&after).Error)
		assert.Equal(t, count, after)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := f.svc.CreatePost(ctx, Principal{}, models.PostInput{Title: "x", Text: "y"})
		assert.ErrorIs(t, err, ErrAnonymous)
	})
}

func TestUpdatePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	location := testdb.Location(t, f.db, "Harbour", true)
	post := testdb.Post(t, f.db, testdb.PostOpts{Title: "Original", Author: f.alice, Category: f.category, Location: location, Published: true, PubDate: now.Add(-time.Hour)})

	t.Run("non-author is rejected and nothing changes", func(t *testing.T) {
		_, err := f.svc.UpdatePost(ctx, as(f.bob), post.ID, models.PostInput{Title: "Hijacked", Text: "nope"})
		assert.ErrorIs(t, err, ErrNotAuthor)

		_, err = f.svc.EditPost(ctx, as(f.bob), post.ID)
		assert.ErrorIs(t, err, ErrNotAuthor)

		_, err = f.svc.UpdatePost(ctx, Principal{}, post.ID, models.PostInput{Title: "Hijacked", Text: "nope"})
		assert.ErrorIs(t, err, ErrNotAuthor)

		stored := f.reload(t, post.ID)
		assert.Equal(t, "Original", stored.Title)
	})

	t.Run("author edits", func(t *testing.T) {
		edit, err := f.svc.EditPost(ctx, as(f.alice), post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", edit.Title)

		_, err = f.svc.UpdatePost(ctx, as(f.alice), post.ID, models.PostInput{
			Title:      "Renamed",
			Text:       "New body",
			CategoryID: &f.category.ID,
		})
		require.NoError(t, err)

		stored := f.reload(t, post.ID)
		assert.Equal(t, "Renamed", stored.Title)
		assert.Equal(t, "New body", stored.Text)
		assert.True(t, stored.IsPublished, "omitted is_published keeps the stored value")
		assert.True(t, stored.PubDate.Equal(now.Add(-time.Hour)))
		assert.Nil(t, stored.LocationID, "omitted location clears the reference")
	})

	t.Run("unpublishing hides the post from others", func(t *testing.T) {
		_, err := f.svc.UpdatePost(ctx, as(f.alice), post.ID, models.PostInput{
			Title:       "Renamed",
			Text:        "New body",
			CategoryID:  &f.category.ID,
			IsPublished: boolPtr(false),
		})
		require.NoError(t, err)

		_, err = f.svc.PostDetail(ctx, as(f.bob), post.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = f.svc.PostDetail(ctx, as(f.alice), post.ID)
		assert.NoError(t, err)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := f.svc.UpdatePost(ctx, as(f.alice), 9999, models.PostInput{Title: "x", Text: "y"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeletePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := testdb.Post(t, f.db, testdb.PostOpts{Author: f.alice, Category: f.category, Published: true, PubDate: now.Add(-time.Hour)})
	testdb.Comment(t, f.db, post, f.bob, "one")
	testdb.Comment(t, f.db, post, f.alice, "two")

	err := f.svc.DeletePost(ctx, as(f.bob), post.ID)
	assert.ErrorIs(t, err, ErrNotAuthor)
	f.reload(t, post.ID)
	assert.Equal(t, int64(2), testdb.CommentCount(t, f.db, post.ID))

	require.NoError(t, f.svc.DeletePost(ctx, as(f.alice), post.ID))

	var n int64
	require.NoError(t, f.db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&n).Error)
	assert.Zero(t, n)
	assert.Zero(t, testdb.CommentCount(t, f.db, post.ID))

	err = f.svc.DeletePost(ctx, as(f.alice), post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCategory_KeepsPosts(t *testing.T) {
	f := newFixture(t)
	post := testdb.Post(t, f.db, testdb.PostOpts{Author: f.alice, Category: f.category, Published: true, PubDate: now.Add(-time.Hour)})

	require.NoError(t, f.db.Delete(f.category).Error)

	stored := f.reload(t, post.ID)
	assert.Nil(t, stored.CategoryID)

	page, err := f.svc.ListIndex(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
