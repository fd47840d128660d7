package service

import (
	"context"
	"errors"
	"testing"

	"meetback/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	createFn          func(context.Context, *models.Follow) error
	deleteFn          func(context.Context, uint, uint) (bool, error)
	existsFn          func(context.Context, uint, uint) (bool, error)
	getFollowingFn    func(context.Context, uint, int, int) ([]models.User, error)
	getFollowersFn    func(context.Context, uint, int, int) ([]models.User, error)
	getFollowingIDsFn func(context.Context, uint) ([]uint, error)
}

func (s *followRepoStub) Create(ctx context.Context, f *models.Follow) error {
	return s.createFn(ctx, f)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.deleteFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followingID)
}
func (s *followRepoStub) GetFollowing(ctx context.Context, followerID uint, limit, offset int) ([]models.User, error) {
	return s.getFollowingFn(ctx, followerID, limit, offset)
}
func (s *followRepoStub) GetFollowers(ctx context.Context, followingID uint, limit, offset int) ([]models.User, error) {
	return s.getFollowersFn(ctx, followingID, limit, offset)
}
func (s *followRepoStub) GetFollowingIDs(ctx context.Context, followerID uint) ([]uint, error) {
	return s.getFollowingIDsFn(ctx, followerID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn: func(context.Context, *models.Follow) error { return nil },
		deleteFn: func(context.Context, uint, uint) (bool, error) { return true, nil },
		existsFn: func(context.Context, uint, uint) (bool, error) { return false, nil },
		getFollowingFn: func(context.Context, uint, int, int) ([]models.User, error) {
			return nil, nil
		},
		getFollowersFn: func(context.Context, uint, int, int) ([]models.User, error) {
			return nil, nil
		},
		getFollowingIDsFn: func(context.Context, uint) ([]uint, error) { return nil, nil },
	}
}

func TestFollowService_SelfFollowRejected(t *testing.T) {
	svc := NewFollowService(noopFollowRepo(), noopUserRepo())

	err := svc.Follow(context.Background(), 3, 3)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, models.CodeNoSelfFollow, appErr.Code)
}

func TestFollowService_SelfUnfollowRejected(t *testing.T) {
	svc := NewFollowService(noopFollowRepo(), noopUserRepo())

	err := svc.Unfollow(context.Background(), 3, 3)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNoSelfUnfollow, appErr.Code)
}

func TestFollowService_UnfollowNotFollowing(t *testing.T) {
	repo := noopFollowRepo()
	repo.deleteFn = func(context.Context, uint, uint) (bool, error) { return false, nil }
	svc := NewFollowService(repo, noopUserRepo())

	err := svc.Unfollow(context.Background(), 1, 2)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFollowing, appErr.Code)
}

func TestFollowService_FollowMissingTarget(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}
	svc := NewFollowService(noopFollowRepo(), users)

	err := svc.Follow(context.Background(), 1, 2)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestFollowService_Status(t *testing.T) {
	repo := noopFollowRepo()
	repo.existsFn = func(_ context.Context, followerID, followingID uint) (bool, error) {
		// 1 follows 2, 2 does not follow back
		return followerID == 1 && followingID == 2, nil
	}
	svc := NewFollowService(repo, noopUserRepo())

	status, err := svc.Status(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, status.Following)
	assert.False(t, status.FollowedBy)
}
