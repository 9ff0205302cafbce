package service

import (
	"context"
	"strings"
	"testing"

	"tavern/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyService_Add(t *testing.T) {
	photo := "https://cdn.example.com/me.png"
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "regular", PhotoURL: &photo, Verified: true}, nil
	}

	var created *models.Reply
	replies := noopReplyRepo()
	replies.createFn = func(_ context.Context, r *models.Reply) error {
		r.ID = 5
		created = r
		return nil
	}

	svc := NewReplyService(replies, users, 5)
	reply, err := svc.Add(context.Background(), AddReplyInput{UserID: 2, PostID: 10, Text: "  hear hear  "})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, uint(5), reply.ID)
	assert.Equal(t, "hear hear", reply.Text)
	assert.Equal(t, uint(10), reply.PostID)
	assert.Equal(t, "regular", reply.AuthorUsername)
	require.NotNil(t, reply.AuthorVerified)
	assert.True(t, *reply.AuthorVerified)
}

func TestReplyService_Add_Validation(t *testing.T) {
	svc := NewReplyService(noopReplyRepo(), noopUserRepo(), 5)
	ctx := context.Background()

	t.Run("empty text", func(t *testing.T) {
		_, err := svc.Add(ctx, AddReplyInput{UserID: 1, PostID: 1, Text: "   "})
		assertValidationError(t, err)
	})

	t.Run("too long", func(t *testing.T) {
		_, err := svc.Add(ctx, AddReplyInput{UserID: 1, PostID: 1, Text: strings.Repeat("a", 2001)})
		assertValidationError(t, err)
	})
}

func TestReplyService_Add_RequiresProfile(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id}, nil
	}

	svc := NewReplyService(noopReplyRepo(), users, 5)
	_, err := svc.Add(context.Background(), AddReplyInput{UserID: 1, PostID: 1, Text: "hi"})
	assertValidationError(t, err)
}

func TestReplyService_Recent(t *testing.T) {
	replies := noopReplyRepo()
	replies.listRecentFn = func(_ context.Context, postID uint, limit int) ([]*models.Reply, error) {
		assert.Equal(t, 5, limit)
		verified := true
		return []*models.Reply{
			{ID: 2, PostID: postID, Text: "newest", AuthorUsername: "bob", AuthorVerified: &verified},
			{ID: 1, PostID: postID, Text: "first"},
		}, nil
	}

	svc := NewReplyService(replies, noopUserRepo(), 5)
	views, err := svc.Recent(context.Background(), 3, 0)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, "bob", views[0].DisplayName)
	assert.True(t, views[0].Verified)
	assert.Equal(t, AnonymousName, views[1].DisplayName)
	assert.False(t, views[1].Verified)
	assert.Contains(t, views[1].AvatarURL, "dicebear.com")
}

func TestReplyService_Recent_VerifiedFallsBackToProfile(t *testing.T) {
	replies := noopReplyRepo()
	replies.listRecentFn = func(_ context.Context, postID uint, _ int) ([]*models.Reply, error) {
		// Rows written before the verified snapshot existed
		return []*models.Reply{
			{ID: 2, PostID: postID, Text: "newest", AuthorID: 7, AuthorUsername: "bob"},
			{ID: 1, PostID: postID, Text: "first", AuthorID: 7, AuthorUsername: "bob"},
		}, nil
	}

	lookups := 0
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		lookups++
		assert.Equal(t, uint(7), id)
		return &models.User{ID: id, Username: "bob", Verified: true}, nil
	}

	svc := NewReplyService(replies, users, 5)
	views, err := svc.Recent(context.Background(), 3, 0)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.True(t, views[0].Verified)
	assert.True(t, views[1].Verified)
	assert.Equal(t, 1, lookups)
}

func TestReplyService_Recent_LimitClamped(t *testing.T) {
	var gotLimit int
	replies := noopReplyRepo()
	replies.listRecentFn = func(_ context.Context, _ uint, limit int) ([]*models.Reply, error) {
		gotLimit = limit
		return nil, nil
	}

	svc := NewReplyService(replies, noopUserRepo(), 5)

	_, err := svc.Recent(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, gotLimit)

	_, err = svc.Recent(context.Background(), 1, 500)
	require.NoError(t, err)
	assert.Equal(t, 50, gotLimit)
}
