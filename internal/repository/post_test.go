package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"meetback/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestUser(t *testing.T, db *gorm.DB, tag string) *models.User {
	t.Helper()
	user := &models.User{
		Handle:       fmt.Sprintf("%s_handle", tag),
		DisplayName:  tag,
		Email:        fmt.Sprintf("%s@example.com", tag),
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestPostRepository_CreateTopLevel(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createTestUser(t, db, "author")

	post := &models.Post{AuthorID: author.ID, Content: "hello"}
	require.NoError(t, repo.Create(ctx, post))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ReplyToID)
	assert.Nil(t, got.ThreadRootID)
	assert.Equal(t, author.ID, got.Author.ID)
}

func TestPostRepository_ReplyThreading(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createTestUser(t, db, "threader")

	root := &models.Post{AuthorID: author.ID, Content: "root"}
	require.NoError(t, repo.Create(ctx, root))

	// Reply to the root: thread root is the parent itself
	reply := &models.Post{AuthorID: author.ID, Content: "first reply", ReplyToID: &root.ID}
	require.NoError(t, repo.Create(ctx, reply))
	require.NotNil(t, reply.ThreadRootID)
	assert.Equal(t, root.ID, *reply.ThreadRootID)

	// Reply to the reply: thread root is inherited, not the direct parent
	nested := &models.Post{AuthorID: author.ID, Content: "nested", ReplyToID: &reply.ID}
	require.NoError(t, repo.Create(ctx, nested))
	require.NotNil(t, nested.ThreadRootID)
	assert.Equal(t, root.ID, *nested.ThreadRootID)

	// Reply counters track direct replies only
	gotRoot, err := repo.GetByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gotRoot.RepliesCount)

	gotReply, err := repo.GetByID(ctx, reply.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gotReply.RepliesCount)
}

func TestPostRepository_ReplyToMissingParent(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createTestUser(t, db, "orphan")

	missing := uint(9999)
	reply := &models.Post{AuthorID: author.ID, Content: "nope", ReplyToID: &missing}
	err := repo.Create(ctx, reply)
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)

	// The failed insert must not leave a row behind
	var count int64
	db.Model(&models.Post{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestPostRepository_ReplyToDeletedParent(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createTestUser(t, db, "deleted_parent")

	parent := &models.Post{AuthorID: author.ID, Content: "soon gone"}
	require.NoError(t, repo.Create(ctx, parent))
	require.NoError(t, repo.SoftDelete(ctx, parent.ID))

	reply := &models.Post{AuthorID: author.ID, Content: "too late", ReplyToID: &parent.ID}
	err := repo.Create(ctx, reply)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestPostRepository_SoftDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createTestUser(t, db, "deleter")

	post := &models.Post{AuthorID: author.ID, Content: "temp"}
	require.NoError(t, repo.Create(ctx, post))
	require.NoError(t, repo.SoftDelete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)

	// Still reachable for moderation
	got, err := repo.GetByIDIncludingDeleted(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)

	// Deleting twice reports not found
	err = repo.SoftDelete(ctx, 424242)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestPostRepository_Feed(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Post{AuthorID: alice.ID, Content: fmt.Sprintf("a%d", i)}))
	}
	require.NoError(t, repo.Create(ctx, &models.Post{AuthorID: bob.ID, Content: "b0"}))
	require.NoError(t, repo.Create(ctx, &models.Post{AuthorID: carol.ID, Content: "c0"}))

	posts, err := repo.GetFeed(ctx, []uint{alice.ID, bob.ID}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 4)
	for _, p := range posts {
		assert.NotEqual(t, carol.ID, p.AuthorID)
	}

	// Empty author set yields an empty feed, no query
	posts, err = repo.GetFeed(ctx, nil, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostRepository_ListAllIncludesDeleted(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createTestUser(t, db, "lister")

	keep := &models.Post{AuthorID: author.ID, Content: "keep"}
	gone := &models.Post{AuthorID: author.ID, Content: "gone"}
	require.NoError(t, repo.Create(ctx, keep))
	require.NoError(t, repo.Create(ctx, gone))
	require.NoError(t, repo.SoftDelete(ctx, gone.ID))

	posts, total, err := repo.ListAll(ctx, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, posts, 2)
}
