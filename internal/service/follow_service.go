package service

import (
	"context"

	"meetback/internal/models"
	"meetback/internal/repository"
)

// FollowService manages the directed follow graph.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// FollowStatus reports the edges between the viewer and another user.
type FollowStatus struct {
	Following  bool `json:"following"`
	FollowedBy bool `json:"followedBy"`
}

// NewFollowService creates a new follow service.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow creates an edge from follower to target. Self-follows are rejected
// and the target must exist.
func (s *FollowService) Follow(ctx context.Context, followerID, targetID uint) error {
	if followerID == targetID {
		return models.NewError(400, models.CodeNoSelfFollow, "You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	return s.followRepo.Create(ctx, &models.Follow{FollowerID: followerID, FollowingID: targetID})
}

// Unfollow removes the edge from follower to target.
func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID uint) error {
	if followerID == targetID {
		return models.NewError(400, models.CodeNoSelfUnfollow, "You cannot unfollow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	existed, err := s.followRepo.Delete(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if !existed {
		return models.NewError(400, models.CodeNotFollowing, "You are not following this user")
	}
	return nil
}

// Status reports both directions between viewer and target.
func (s *FollowService) Status(ctx context.Context, viewerID, targetID uint) (*FollowStatus, error) {
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}
	following, err := s.followRepo.Exists(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	followedBy, err := s.followRepo.Exists(ctx, targetID, viewerID)
	if err != nil {
		return nil, err
	}
	return &FollowStatus{Following: following, FollowedBy: followedBy}, nil
}

// Following lists the users the given user follows.
func (s *FollowService) Following(ctx context.Context, userID uint, limit, offset int) ([]models.PublicProfile, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.followRepo.GetFollowing(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return publicProfiles(users), nil
}

// Followers lists the users following the given user.
func (s *FollowService) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.PublicProfile, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.followRepo.GetFollowers(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return publicProfiles(users), nil
}

func publicProfiles(users []models.User) []models.PublicProfile {
	out := make([]models.PublicProfile, 0, len(users))
	for i := range users {
		out = append(out, *users[i].Public())
	}
	return out
}
