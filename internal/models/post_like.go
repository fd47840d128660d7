package models

import "time"

// PostLike is a like edge between a user and a post. The (user, post) pair is
// unique. Creating or removing an edge also adjusts Post.LikesCount with a
// separate single-row write; the two writes are deliberately not wrapped in a
// shared transaction.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"userId"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_user_post;index" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Post Post `gorm:"foreignKey:PostID" json:"-"`
}
