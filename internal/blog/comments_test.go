package blog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/blogicum/backend/internal/models"
	"github.com/emilythestrangee/blogicum/backend/internal/testdb"
)

func TestCreateComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	visible := testdb.Post(t, f.db, testdb.PostOpts{Author: f.alice, Category: f.category, Published: true, PubDate: now.Add(-time.Hour)})
	draft := testdb.Post(t, f.db, testdb.PostOpts{Author: f.alice, Category: f.category, Published: false, PubDate: now.Add(-time.Hour)})

	comment, err := f.svc.CreateComment(ctx, as(f.bob), visible.ID, models.CommentInput{Text: "  Great trip!  "})
	require.NoError(t, err)
	assert.Equal(t, "Great trip!", comment.Text)
	assert.Equal(t, f.bob.ID, comment.AuthorID)
	assert.Equal(t, int64(1), testdb.CommentCount(t, f.db, visible.ID))

	_, err = f.svc.CreateComment(ctx, as(f.bob), draft.ID, models.CommentInput{Text: "sneaky"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, testdb.CommentCount(t, f.db, draft.ID))

	_, err = f.svc.CreateComment(ctx, as(f.alice), draft.ID, models.CommentInput{Text: "note to self"})
	assert.NoError(t, err, "authors may comment on their own hidden posts")

	_, err = f.svc.CreateComment(ctx, as(f.bob), 9999, models.CommentInput{Text: "void"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.CreateComment(ctx, as(f.bob), visible.ID, models.CommentInput{Text: "<img src=x>"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "text", verr.Field)

	_, err = f.svc.CreateComment(ctx, Principal{}, visible.ID, models.CommentInput{Text: "anon"})
	assert.ErrorIs(t, err, ErrAnonymous)
}

func TestComments_Order(t *testing.T) {
	f := newFixture(t)
	post := testdb.Post(t, f.db, testdb.PostOpts{Author: f.alice, Category: f.category, Published: true, PubDate: now.Add(-time.Hour)})
	first := testdb.Comment(t, f.db, post, f.bob, "first")
	second := testdb.Comment(t, f.db, post, f.alice, "second")

	detail, err := f.svc.PostDetail(context.Background(), Principal{}, post.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, first.ID, detail.Comments[0].ID)
	assert.Equal(t, second.ID, detail.Comments[1].ID)
}

func TestCommentOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := testdb.Post(t, f.db, testdb.PostOpts{Author: f.alice, Category: f.category, Published: true, PubDate: now.Add(-time.Hour)})
	other := testdb.Post(t, f.db, testdb.PostOpts{Author: f.alice, Category: f.category, Published: true, PubDate: now.Add(-time.Hour)})
	comment := testdb.Comment(t, f.db, post, f.alice, "mine")

	stored := func() models.Comment {
		var c models.Comment
		require.NoError(t, f.db.Take(&c, comment.ID).Error)
		return c
	}

	t.Run("non-author cannot edit, update or delete", func(t *testing.T) {
		for _, p := range []Principal{as(f.bob), {}} {
			_, err := f.svc.EditComment(ctx, p, post.ID, comment.ID)
			assert.ErrorIs(t, err, ErrNotAuthor)

			_, err = f.svc.UpdateComment(ctx, p, post.ID, comment.ID, models.CommentInput{Text: "defaced"})
			assert.ErrorIs(t, err, ErrNotAuthor)

			err = f.svc.DeleteComment(ctx, p, post.ID, comment.ID)
			assert.ErrorIs(t, err, ErrNotAuthor)
		}
		assert.Equal(t, "mine", stored().Text)
		assert.Equal(t, int64(1), testdb.CommentCount(t, f.db, post.ID))
	})

	t.Run("comment under the wrong post", func(t *testing.T) {
		_, err := f.svc.EditComment(ctx, as(f.alice), other.ID, comment.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		err = f.svc.DeleteComment(ctx, as(f.alice), other.ID, comment.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, int64(1), testdb.CommentCount(t, f.db, post.ID))
	})

	t.Run("author updates", func(t *testing.T) {
		edit, err := f.svc.EditComment(ctx, as(f.alice), post.ID, comment.ID)
		require.NoError(t, err)
		assert.Equal(t, "mine", edit.Text)

		_, err = f.svc.UpdateComment(ctx, as(f.alice), post.ID, comment.ID, models.CommentInput{Text: "edited"})
		require.NoError(t, err)
		assert.Equal(t, "edited", stored().Text)
	})

	t.Run("author deletes", func(t *testing.T) {
		require.NoError(t, f.svc.DeleteComment(ctx, as(f.alice), post.ID, comment.ID))
		assert.Zero(t, testdb.CommentCount(t, f.db, post.ID))

		err := f.svc.DeleteComment(ctx, as(f.alice), post.ID, comment.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
