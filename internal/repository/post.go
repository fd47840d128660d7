package repository

import (
	"context"
	"errors"

	"meetback/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByIDIncludingDeleted(ctx context.Context, id uint) (*models.Post, error)
	GetByAuthorID(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error)
	GetFeed(ctx context.Context, authorIDs []uint, limit, offset int) ([]*models.Post, error)
	GetReplies(ctx context.Context, postID uint, limit, offset int) ([]*models.Post, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.Post, int64, error)
	SoftDelete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a post. For a reply it resolves the parent, derives the
// thread root (the parent's root, or the parent itself when the parent is a
// root post) and increments the parent's reply counter; the counter bump and
// the insert commit or abort together.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ReplyToID == nil {
		if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parent models.Post
		if err := tx.Where("id = ? AND deleted = ?", *post.ReplyToID, false).
			First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", *post.ReplyToID)
			}
			return models.NewInternalError(err)
		}

		root := parent.ID
		if parent.ThreadRootID != nil {
			root = *parent.ThreadRootID
		}
		post.ThreadRootID = &root

		if err := tx.Model(&models.Post{}).
			Where("id = ?", parent.ID).
			UpdateColumn("replies_count", gorm.Expr("replies_count + 1")).Error; err != nil {
			return models.NewInternalError(err)
		}

		if err := tx.Create(post).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("ReplyTo.Author").
		Where("id = ? AND deleted = ?", id, false).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByIDIncludingDeleted(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByAuthorID(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Where("author_id = ? AND deleted = ?", authorID, false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetFeed(ctx context.Context, authorIDs []uint, limit, offset int) ([]*models.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("ReplyTo.Author").
		Where("author_id IN ? AND deleted = ?", authorIDs, false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// GetReplies lists a post's replies in chronological order, earliest first.
func (r *postRepository) GetReplies(ctx context.Context, postID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("reply_to_id = ? AND deleted = ?", postID, false).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListAll returns every post including soft-deleted ones, for admin review.
func (r *postRepository) ListAll(ctx context.Context, limit, offset int) ([]*models.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update("deleted", true)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}
