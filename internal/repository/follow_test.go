package repository

import (
	"context"
	"errors"
	"testing"

	"meetback/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_CreateAndExists(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "f_alice")
	bob := createTestUser(t, db, "f_bob")

	require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))

	exists, err := repo.Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// Edges are directed
	exists, err = repo.Exists(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFollowRepository_DuplicateEdge(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "dup_alice")
	bob := createTestUser(t, db, "dup_bob")

	require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))
	err := repo.Create(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID})
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeAlreadyFollowing, appErr.Code)
}

func TestFollowRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "del_alice")
	bob := createTestUser(t, db, "del_bob")

	require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))

	existed, err := repo.Delete(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = repo.Delete(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestFollowRepository_FollowingAndFollowers(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "g_alice")
	bob := createTestUser(t, db, "g_bob")
	carol := createTestUser(t, db, "g_carol")

	require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))
	require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: carol.ID}))
	require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: bob.ID, FollowingID: carol.ID}))

	following, err := repo.GetFollowing(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, following, 2)

	followers, err := repo.GetFollowers(ctx, carol.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	ids, err := repo.GetFollowingIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{bob.ID, carol.ID}, ids)
}
