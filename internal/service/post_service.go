package service

import (
	"context"
	"strings"

	"meetback/internal/models"
	"meetback/internal/repository"
)

// PostService manages posts, replies and threads.
type PostService struct {
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// CreatePostInput is the payload for creating a post or reply.
type CreatePostInput struct {
	Content   string
	Media     []string
	ReplyToID *uint
}

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository, followRepo repository.FollowRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, followRepo: followRepo, userRepo: userRepo}
}

// Create publishes a post. Replies resolve their thread root from the parent
// and bump the parent's reply counter atomically with the insert.
func (s *PostService) Create(ctx context.Context, authorID uint, in CreatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" && len(in.Media) == 0 {
		return nil, models.NewMissingDataError()
	}
	if len([]rune(content)) > models.MaxPostContentLen {
		return nil, models.NewValidationError("Post content exceeds the maximum length")
	}

	post := &models.Post{
		AuthorID:  authorID,
		Content:   content,
		Media:     models.MediaList(in.Media),
		ReplyToID: in.ReplyToID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// Get returns a single post by ID.
func (s *PostService) Get(ctx context.Context, postID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// ByUser lists a user's posts, newest first.
func (s *PostService) ByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByAuthorID(ctx, userID, limit, offset)
}

// Feed returns recent posts from the users the viewer follows, plus the
// viewer's own.
func (s *PostService) Feed(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	ids, err := s.followRepo.GetFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	ids = append(ids, viewerID)
	return s.postRepo.GetFeed(ctx, ids, limit, offset)
}

// Replies lists the direct replies to a post, oldest first.
func (s *PostService) Replies(ctx context.Context, postID uint, limit, offset int) ([]*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetReplies(ctx, postID, limit, offset)
}

// Delete soft-deletes a post. Only the author or an admin may delete; the
// reply subtree and counters are left as they are.
func (s *PostService) Delete(ctx context.Context, postID uint, actor *models.User) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.ID && !actor.IsAdmin() {
		return models.NewForbiddenError(models.CodeForbidden, "You can only delete your own posts")
	}
	return s.postRepo.SoftDelete(ctx, postID)
}

// ListAll returns every post including soft-deleted ones. Admin only, for
// moderation.
func (s *PostService) ListAll(ctx context.Context, limit, offset int) ([]*models.Post, int64, error) {
	return s.postRepo.ListAll(ctx, limit, offset)
}

// GetAny fetches a post regardless of its deleted flag. Admin only, so
// moderators can inspect removed content.
func (s *PostService) GetAny(ctx context.Context, postID uint) (*models.Post, error) {
	return s.postRepo.GetByIDIncludingDeleted(ctx, postID)
}
