package service

import (
	"context"
	"math"
	"time"

	"meetback/internal/models"
	"meetback/internal/repository"
)

// RatingService manages peer ratings and their aggregation.
type RatingService struct {
	ratingRepo repository.RatingRepository
	userRepo   repository.UserRepository
}

// CreateRatingInput is the payload for rating a user.
type CreateRatingInput struct {
	ToUserID uint
	Aspects  models.AspectScores
	Comment  string
}

// NewRatingService creates a new rating service.
func NewRatingService(ratingRepo repository.RatingRepository, userRepo repository.UserRepository) *RatingService {
	return &RatingService{ratingRepo: ratingRepo, userRepo: userRepo}
}

// Create records a rating of another user. Each rater holds at most one
// rating per target; rating the same target again within the cooldown window
// is rejected, and after the window the previous rating is replaced so the
// pair stays unique.
func (s *RatingService) Create(ctx context.Context, fromUserID uint, in CreateRatingInput) (*models.Rating, error) {
	if fromUserID == in.ToUserID {
		return nil, models.NewForbiddenError(models.CodeSelfRating, "You cannot rate yourself")
	}
	if len(in.Aspects) == 0 {
		return nil, models.NewMissingDataError()
	}
	if err := in.Aspects.Valid(); err != nil {
		return nil, models.NewError(422, models.CodeInvalidAspects, err.Error())
	}
	if len([]rune(in.Comment)) > models.MaxRatingCommentLen {
		return nil, models.NewValidationError("Comment exceeds the maximum length")
	}
	if _, err := s.userRepo.GetByID(ctx, in.ToUserID); err != nil {
		return nil, err
	}

	rating := &models.Rating{
		FromUserID: fromUserID,
		ToUserID:   in.ToUserID,
		Aspects:    in.Aspects,
		Comment:    in.Comment,
		Weight:     1,
		Visibility: true,
	}

	previous, err := s.ratingRepo.GetByPair(ctx, fromUserID, in.ToUserID)
	if err != nil {
		return nil, err
	}
	if previous != nil {
		elapsed := time.Since(previous.CreatedAt)
		if elapsed < models.RatingCooldownPeriod {
			retryAfter := models.RatingCooldownPeriod - elapsed
			return nil, models.NewRateLimitedError(retryAfter,
				"You have already rated this user recently")
		}
		if err := s.ratingRepo.Replace(ctx, previous.ID, rating); err != nil {
			return nil, err
		}
		return rating, nil
	}

	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

// Aggregates computes per-aspect arithmetic means over every rating the user
// has received, rounded to two decimals. Aspects nobody has scored yet come
// back as null rather than zero.
func (s *RatingService) Aggregates(ctx context.Context, userID uint) (models.AspectAverages, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	ratings, err := s.ratingRepo.GetReceived(ctx, userID)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64, len(models.ValidRatingAspects))
	counts := make(map[string]int, len(models.ValidRatingAspects))
	for i := range ratings {
		for aspect, score := range ratings[i].Aspects {
			sums[aspect] += float64(score)
			counts[aspect]++
		}
	}

	out := make(models.AspectAverages, len(models.ValidRatingAspects))
	for _, aspect := range models.ValidRatingAspects {
		if counts[aspect] == 0 {
			out[aspect] = nil
			continue
		}
		avg := math.Round(sums[aspect]/float64(counts[aspect])*100) / 100
		out[aspect] = &avg
	}
	return out, nil
}

// Received lists the ratings a user has received, newest first, with the
// rater attached.
func (s *RatingService) Received(ctx context.Context, userID uint, limit, offset int) ([]models.Rating, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.ratingRepo.GetReceivedWithRater(ctx, userID, limit, offset)
}

// Given lists the ratings a user has handed out, newest first.
func (s *RatingService) Given(ctx context.Context, userID uint, limit, offset int) ([]models.Rating, error) {
	return s.ratingRepo.GetGiven(ctx, userID, limit, offset)
}

// Delete removes a rating outright. Admin only.
func (s *RatingService) Delete(ctx context.Context, ratingID uint) error {
	existed, err := s.ratingRepo.Delete(ctx, ratingID)
	if err != nil {
		return err
	}
	if !existed {
		return models.NewNotFoundError("Rating", ratingID)
	}
	return nil
}
