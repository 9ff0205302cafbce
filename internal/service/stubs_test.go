package service

import (
	"context"
	"errors"
	"testing"

	"tavern/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getByEmailFn     func(context.Context, string) (*models.User, error)
	createFn         func(context.Context, *models.User) error
	updateFn         func(context.Context, *models.User) error
	saveProfileFn    func(context.Context, uint, string, *string) (*models.User, error)
	getReservationFn func(context.Context, string) (*models.UsernameReservation, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) SaveProfile(ctx context.Context, userID uint, username string, photoURL *string) (*models.User, error) {
	return s.saveProfileFn(ctx, userID, username, photoURL)
}
func (s *userRepoStub) GetReservation(ctx context.Context, username string) (*models.UsernameReservation, error) {
	return s.getReservationFn(ctx, username)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "tester"}, nil
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
		updateFn:     func(_ context.Context, _ *models.User) error { return nil },
		saveProfileFn: func(_ context.Context, userID uint, username string, photoURL *string) (*models.User, error) {
			return &models.User{ID: userID, Username: username, PhotoURL: photoURL}, nil
		},
		getReservationFn: func(_ context.Context, _ string) (*models.UsernameReservation, error) { return nil, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	listFn    func(context.Context, string, int) ([]*models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, category string, limit int) ([]*models.Post, error) {
	return s.listFn(ctx, category, limit)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:    func(_ context.Context, _ string, _ int) ([]*models.Post, error) { return nil, nil },
	}
}

// voteRepoStub is a stub for repository.VoteRepository.
type voteRepoStub struct {
	getFn         func(context.Context, uint, uint) (int, error)
	getForPostsFn func(context.Context, uint, []uint) (map[uint]int, error)
	applyFn       func(context.Context, uint, uint, int) (*models.Post, int, error)
}

func (s *voteRepoStub) Get(ctx context.Context, postID, userID uint) (int, error) {
	return s.getFn(ctx, postID, userID)
}
func (s *voteRepoStub) GetForPosts(ctx context.Context, userID uint, postIDs []uint) (map[uint]int, error) {
	return s.getForPostsFn(ctx, userID, postIDs)
}
func (s *voteRepoStub) Apply(ctx context.Context, postID, userID uint, direction int) (*models.Post, int, error) {
	return s.applyFn(ctx, postID, userID, direction)
}

func noopVoteRepo() *voteRepoStub {
	return &voteRepoStub{
		getFn: func(_ context.Context, _, _ uint) (int, error) { return models.VoteNone, nil },
		getForPostsFn: func(_ context.Context, _ uint, _ []uint) (map[uint]int, error) {
			return map[uint]int{}, nil
		},
		applyFn: func(_ context.Context, postID, _ uint, direction int) (*models.Post, int, error) {
			return &models.Post{ID: postID}, direction, nil
		},
	}
}

// replyRepoStub is a stub for repository.ReplyRepository.
type replyRepoStub struct {
	createFn       func(context.Context, *models.Reply) error
	listRecentFn   func(context.Context, uint, int) ([]*models.Reply, error)
	countForPostFn func(context.Context, uint) (int64, error)
}

func (s *replyRepoStub) Create(ctx context.Context, reply *models.Reply) error {
	return s.createFn(ctx, reply)
}
func (s *replyRepoStub) ListRecent(ctx context.Context, postID uint, limit int) ([]*models.Reply, error) {
	return s.listRecentFn(ctx, postID, limit)
}
func (s *replyRepoStub) CountForPost(ctx context.Context, postID uint) (int64, error) {
	return s.countForPostFn(ctx, postID)
}

func noopReplyRepo() *replyRepoStub {
	return &replyRepoStub{
		createFn:       func(_ context.Context, _ *models.Reply) error { return nil },
		listRecentFn:   func(_ context.Context, _ uint, _ int) ([]*models.Reply, error) { return nil, nil },
		countForPostFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}
