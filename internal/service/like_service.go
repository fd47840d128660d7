package service

import (
	"context"

	"meetback/internal/models"
	"meetback/internal/repository"
)

// LikeService manages post likes.
type LikeService struct {
	likeRepo repository.LikeRepository
	postRepo repository.PostRepository
}

// NewLikeService creates a new like service.
func NewLikeService(likeRepo repository.LikeRepository, postRepo repository.PostRepository) *LikeService {
	return &LikeService{likeRepo: likeRepo, postRepo: postRepo}
}

// Like records a like. Liking a post twice is a no-op, not an error.
func (s *LikeService) Like(ctx context.Context, userID, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}
	return s.likeRepo.Like(ctx, userID, postID)
}

// Unlike removes a like. Unliking a post that was never liked is a no-op.
func (s *LikeService) Unlike(ctx context.Context, userID, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}
	return s.likeRepo.Unlike(ctx, userID, postID)
}

// Likers lists users who liked the post, with the total count.
func (s *LikeService) Likers(ctx context.Context, postID uint, limit, offset int) ([]models.PublicProfile, int64, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, 0, err
	}
	users, total, err := s.likeRepo.GetLikers(ctx, postID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return publicProfiles(users), total, nil
}
