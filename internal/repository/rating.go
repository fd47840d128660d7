package repository

import (
	"context"
	"errors"

	"meetback/internal/models"

	"gorm.io/gorm"
)

// RatingRepository defines the interface for rating data operations.
type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	Replace(ctx context.Context, previousID uint, rating *models.Rating) error
	GetByID(ctx context.Context, id uint) (*models.Rating, error)
	GetByPair(ctx context.Context, fromUserID, toUserID uint) (*models.Rating, error)
	GetReceived(ctx context.Context, toUserID uint) ([]models.Rating, error)
	GetReceivedWithRater(ctx context.Context, toUserID uint, limit, offset int) ([]models.Rating, error)
	GetGiven(ctx context.Context, fromUserID uint, limit, offset int) ([]models.Rating, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new rating repository.
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).Create(rating).Error; err != nil {
		if isDuplicateKey(err) {
			return models.NewConflictError(models.CodeAlreadyRated, "You have already rated this user")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Replace removes the previous rating for a pair and inserts the new one
// atomically, so the unique (from_user, to_user) index never observes both.
func (r *ratingRepository) Replace(ctx context.Context, previousID uint, rating *models.Rating) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Rating{}, previousID).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Create(rating).Error; err != nil {
			if isDuplicateKey(err) {
				return models.NewConflictError(models.CodeAlreadyRated, "You have already rated this user")
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	return err
}

func (r *ratingRepository) GetByID(ctx context.Context, id uint) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).First(&rating, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Rating", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &rating, nil
}

// GetByPair returns (nil, nil) when the pair has no rating yet.
func (r *ratingRepository) GetByPair(ctx context.Context, fromUserID, toUserID uint) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &rating, nil
}

// GetReceived returns every rating a user has received, visible or not.
// Aggregation deliberately does not filter on visibility.
func (r *ratingRepository) GetReceived(ctx context.Context, toUserID uint) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.WithContext(ctx).
		Where("to_user_id = ?", toUserID).
		Find(&ratings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ratings, nil
}

func (r *ratingRepository) GetReceivedWithRater(ctx context.Context, toUserID uint, limit, offset int) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.WithContext(ctx).
		Preload("FromUser").
		Where("to_user_id = ?", toUserID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ratings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ratings, nil
}

func (r *ratingRepository) GetGiven(ctx context.Context, fromUserID uint, limit, offset int) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.WithContext(ctx).
		Preload("ToUser").
		Where("from_user_id = ?", fromUserID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ratings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ratings, nil
}

// Delete hard-deletes a rating by ID and reports whether one existed.
func (r *ratingRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Rating{}, id)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}
