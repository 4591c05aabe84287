package blog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/blogicum/backend/internal/clock"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
	"github.com/emilythestrangee/blogicum/backend/internal/testdb"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestIsVisible(t *testing.T) {
	published := &models.Category{IsPublished: true}
	hidden := &models.Category{IsPublished: false}

	tests := []struct {
		name string
		post models.Post
		want bool
	}{
		{"published, category published, past", models.Post{IsPublished: true, Category: published, PubDate: now.Add(-time.Hour)}, true},
		{"publish time equal to now", models.Post{IsPublished: true, Category: published, PubDate: now}, true},
		{"unpublished", models.Post{IsPublished: false, Category: published, PubDate: now.Add(-time.Hour)}, false},
		{"category unpublished", models.Post{IsPublished: true, Category: hidden, PubDate: now.Add(-time.Hour)}, false},
		{"future", models.Post{IsPublished: true, Category: published, PubDate: now.Add(time.Second)}, false},
		{"uncategorised", models.Post{IsPublished: true, PubDate: now.Add(-time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVisible(&tt.post, now))
		})
	}
}

func TestCanView(t *testing.T) {
	post := &models.Post{AuthorID: 7, IsPublished: false}

	assert.True(t, CanView(Principal{UserID: 7}, post, now), "author sees own hidden post")
	assert.False(t, CanView(Principal{UserID: 8}, post, now))
	assert.False(t, CanView(Principal{}, post, now), "anonymous never owns")
	assert.False(t, CanView(Principal{}, &models.Post{AuthorID: 0}, now), "zero author id is not owned by anonymous")
}

// Every combination of the three flags: the listing must contain exactly the
// posts IsVisible accepts.
func TestListIndex_MatchesPredicate(t *testing.T) {
	db := testdb.New(t)
	svc := NewService(db, clock.NewStubClock(now), 100)
	author := testdb.User(t, db, "author")
	open := testdb.Category(t, db, "open", true)
	closed := testdb.Category(t, db, "closed", false)

	want := map[int]bool{}
	for _, published := range []bool{true, false} {
		for _, category := range []*models.Category{open, closed, nil} {
			for _, offset := range []time.Duration{-24 * time.Hour, 0, 24 * time.Hour} {
				post := testdb.Post(t, db, testdb.PostOpts{
					Author:    author,
					Category:  category,
					Published: published,
					PubDate:   now.Add(offset),
				})
				post.Category = category
				want[post.ID] = IsVisible(post, now)
			}
		}
	}

	page, err := svc.ListIndex(context.Background(), "")
	require.NoError(t, err)

	got := map[int]bool{}
	for _, p := range page.Items {
		got[p.ID] = true
	}
	for id, visible := range want {
		assert.Equal(t, visible, got[id], "post %d", id)
	}
	// published x open category x {yesterday, now}
	assert.Equal(t, int64(2), page.Total)
}

func TestListIndex_OrderAndAnnotations(t *testing.T) {
	db := testdb.New(t)
	svc := NewService(db, clock.NewStubClock(now), 10)
	author := testdb.User(t, db, "author")
	reader := testdb.User(t, db, "reader")
	category := testdb.Category(t, db, "travel", true)
	location := testdb.Location(t, db, "Island", true)

	older := testdb.Post(t, db, testdb.PostOpts{Title: "older", Author: author, Category: category, Published: true, PubDate: now.Add(-48 * time.Hour)})
	newer := testdb.Post(t, db, testdb.PostOpts{Title: "newer", Author: author, Category: category, Location: location, Published: true, PubDate: now.Add(-time.Hour)})
	testdb.Comment(t, db, older, reader, "first")
	testdb.Comment(t, db, older, author, "second")

	page, err := svc.ListIndex(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	assert.Equal(t, newer.ID, page.Items[0].ID)
	assert.Equal(t, older.ID, page.Items[1].ID)
	assert.Equal(t, int64(0), page.Items[0].CommentCount)
	assert.Equal(t, int64(2), page.Items[1].CommentCount)

	assert.Equal(t, "author", page.Items[0].Author.Username)
	require.NotNil(t, page.Items[0].Category)
	assert.Equal(t, "travel", page.Items[0].Category.Slug)
	require.NotNil(t, page.Items[0].Location)
	assert.Equal(t, "Island", page.Items[0].Location.Name)
}

func TestListIndex_Pagination(t *testing.T) {
	db := testdb.New(t)
	svc := NewService(db, clock.NewStubClock(now), 10)
	author := testdb.User(t, db, "author")
	category := testdb.Category(t, db, "news", true)

	for i := 0; i < 25; i++ {
		testdb.Post(t, db, testdb.PostOpts{Author: author, Category: category, Published: true, PubDate: now.Add(-time.Duration(i+1) * time.Minute)})
	}

	ctx := context.Background()
	first, err := svc.ListIndex(ctx, "")
	require.NoError(t, err)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, 3, first.NumPages())

	last, err := svc.ListIndex(ctx, "3")
	require.NoError(t, err)
	assert.Len(t, last.Items, 5)
	assert.False(t, last.HasNext())

	byKeyword, err := svc.ListIndex(ctx, "last")
	require.NoError(t, err)
	assert.Equal(t, 3, byKeyword.Number)

	for _, raw := range []string{"99", "0", "-1", "abc"} {
		_, err := svc.ListIndex(ctx, raw)
		assert.ErrorIs(t, err, ErrNotFound, "page %q", raw)
	}

	// the category listing falls back instead of failing
	listing, err := svc.ListCategory(ctx, "news", "99")
	require.NoError(t, err)
	assert.Equal(t, 3, listing.Posts.Number)

	listing, err = svc.ListCategory(ctx, "news", "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, listing.Posts.Number)
}

func TestListIndex_ClockMovesPostsIntoView(t *testing.T) {
	db := testdb.New(t)
	clk := clock.NewStubClock(now)
	svc := NewService(db, clk, 10)
	author := testdb.User(t, db, "author")
	category := testdb.Category(t, db, "news", true)
	testdb.Post(t, db, testdb.PostOpts{Author: author, Category: category, Published: true, PubDate: now.Add(24 * time.Hour)})

	page, err := svc.ListIndex(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	clk.Advance(25 * time.Hour)
	page, err = svc.ListIndex(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}
