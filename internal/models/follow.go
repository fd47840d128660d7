package models

import "time"

// Follow is a directed edge in the follow graph: Follower observes
// Following's posts. The (follower, following) pair is unique and self-loops
// are rejected at the service layer.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follower_following" json:"followerId"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follower_following;index" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`

	Follower  User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Following User `gorm:"foreignKey:FollowingID" json:"following,omitempty"`
}
