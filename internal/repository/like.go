package repository

import (
	"context"

	"meetback/internal/models"

	"gorm.io/gorm"
)

// LikeRepository defines the interface for like edge operations.
type LikeRepository interface {
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
	GetLikers(ctx context.Context, postID uint, limit, offset int) ([]models.User, int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Like inserts the edge with insert-or-ignore so concurrent duplicates are
// harmless, then bumps the post counter only when a row was actually
// inserted. The counter write is a separate single-row statement; a failure
// between the two leaves the counter transiently behind the edge table,
// which is accepted.
func (r *likeRepository) Like(ctx context.Context, userID, postID uint) error {
	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO post_likes (user_id, post_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		// Edge already present; nothing to count.
		return nil
	}

	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Unlike removes the edge and decrements the counter only when an edge was
// actually deleted.
func (r *likeRepository) Unlike(ctx context.Context, userID, postID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.PostLike{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *likeRepository) GetLikers(ctx context.Context, postID uint, limit, offset int) ([]models.User, int64, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN post_likes pl ON users.id = pl.user_id").
		Where("pl.post_id = ?", postID).
		Order("pl.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Where("post_id = ?", postID).
		Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	return users, total, nil
}
