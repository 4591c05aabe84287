package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/emilythestrangee/blogicum/backend/internal/blog"
	"github.com/emilythestrangee/blogicum/backend/internal/clock"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
	"github.com/emilythestrangee/blogicum/backend/internal/testdb"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*Service, *clock.StubClock) {
	t.Helper()
	clk := clock.NewStubClock(now)
	tokens := NewTokens("test-secret", time.Hour, clk)
	return NewService(testdb.New(t), tokens).WithCost(bcrypt.MinCost), clk
}

func TestTokens(t *testing.T) {
	clk := clock.NewStubClock(now)
	tokens := NewTokens("secret", time.Hour, clk)
	user := &models.User{ID: 3, Username: "carol", IsStaff: true}

	raw, err := tokens.Issue(user)
	require.NoError(t, err)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, claims.UserID)
	assert.Equal(t, "carol", claims.Username)
	assert.True(t, claims.IsStaff)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokens("other", time.Hour, clk).Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		late := clock.NewStubClock(now.Add(2 * time.Hour))
		_, err := NewTokens("secret", time.Hour, late).Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 3}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = tokens.Parse(none)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, models.RegisterRequest{Username: "dave", Email: "dave@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "dave", resp.User.Username)
	assert.False(t, resp.User.IsStaff)
	assert.NotEqual(t, "correct horse", resp.User.Password)

	_, err = svc.Register(ctx, models.RegisterRequest{Username: "dave", Email: "other@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, blog.ErrDuplicate)

	login, err := svc.Login(ctx, models.LoginRequest{Username: "dave", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(ctx, models.LoginRequest{Username: "dave", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, models.LoginRequest{Username: "nobody", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUser_Staff(t *testing.T) {
	svc, _ := newService(t)

	user, err := svc.CreateUser(context.Background(), "admin", "admin@example.com", "s3cretpass", true)
	require.NoError(t, err)
	assert.True(t, user.IsStaff)

	_, err = svc.CreateUser(context.Background(), "  ", "x@example.com", "s3cretpass", false)
	var verr *blog.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestResolve(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()

	staff, err := svc.CreateUser(ctx, "erin", "erin@example.com", "password1", true)
	require.NoError(t, err)
	token, err := svc.tokens.Issue(staff)
	require.NoError(t, err)

	p := svc.Resolve(ctx, token)
	assert.Equal(t, blog.Principal{UserID: staff.ID, Username: "erin", IsStaff: true}, p)

	assert.Equal(t, blog.Principal{}, svc.Resolve(ctx, ""))
	assert.Equal(t, blog.Principal{}, svc.Resolve(ctx, "junk"))

	ghost, err := svc.tokens.Issue(&models.User{ID: 999, Username: "ghost"})
	require.NoError(t, err)
	assert.Equal(t, blog.Principal{}, svc.Resolve(ctx, ghost), "deleted users are anonymous")

	clk.Advance(2 * time.Hour)
	assert.Equal(t, blog.Principal{}, svc.Resolve(ctx, token), "expired tokens are anonymous")
}

func TestUser(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, err := svc.CreateUser(ctx, "frank", "frank@example.com", "password1", false)
	require.NoError(t, err)

	user, err := svc.User(ctx, blog.Principal{UserID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "frank", user.Username)

	_, err = svc.User(ctx, blog.Principal{})
	assert.ErrorIs(t, err, blog.ErrAnonymous)
}
