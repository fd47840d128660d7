package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// MaxPostContentLen is the content limit for posts and replies.
const MaxPostContentLen = 280

// MediaList stores attachment URLs as a JSON column.
type MediaList []string

// Value implements driver.Valuer.
func (m MediaList) Value() (driver.Value, error) {
	if m == nil {
		m = MediaList{}
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *MediaList) Scan(value any) error {
	if value == nil {
		*m = MediaList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported type for MediaList")
	}
}

// Post is a post or a reply. Replies carry ReplyToID and a derived
// ThreadRootID so every reply in a thread points at the same root without
// walking the chain. Posts are soft-deleted only: Deleted flips to true and
// the row stays, keeping counters and thread structure intact.
type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AuthorID     uint      `gorm:"not null;index:idx_author_created" json:"authorId"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	ReplyToID    *uint     `gorm:"index" json:"replyTo"`
	ThreadRootID *uint     `gorm:"index" json:"threadRoot"`
	Media        MediaList `gorm:"type:jsonb" json:"media"`
	RepliesCount int       `gorm:"default:0" json:"repliesCount"`
	LikesCount   int       `gorm:"default:0" json:"likesCount"`
	RepostsCount int       `gorm:"default:0" json:"repostsCount"`
	Deleted      bool      `gorm:"default:false;index" json:"deleted"`
	CreatedAt    time.Time `gorm:"index:idx_author_created" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Author  User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ReplyTo *Post `gorm:"foreignKey:ReplyToID" json:"replyToPost,omitempty"`
}
