package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ValidRatingAspects is the fixed set of aspects a rating may score.
var ValidRatingAspects = []string{
	"sincerity",
	"kindness",
	"punctuality",
	"respect",
	"communication",
}

// Rating score bounds and cooldown between successive ratings for the same
// (fromUser, toUser) pair.
const (
	MinAspectScore       = 1
	MaxAspectScore       = 5
	MaxRatingCommentLen  = 250
	RatingCooldownPeriod = 7 * 24 * time.Hour
)

// IsValidRatingAspect reports whether the aspect belongs to the fixed set.
func IsValidRatingAspect(aspect string) bool {
	for _, a := range ValidRatingAspects {
		if a == aspect {
			return true
		}
	}
	return false
}

// AspectScores maps aspect names to integer scores, stored as a JSON column.
type AspectScores map[string]int

// Valid checks that the map is a non-empty subset of the fixed aspect
// enumeration with every score in [MinAspectScore, MaxAspectScore].
func (a AspectScores) Valid() error {
	if len(a) == 0 {
		return errors.New("at least one aspect score is required")
	}
	for aspect, score := range a {
		if !IsValidRatingAspect(aspect) {
			return fmt.Errorf("unknown rating aspect %q", aspect)
		}
		if score < MinAspectScore || score > MaxAspectScore {
			return fmt.Errorf("score for %q must be between %d and %d",
				aspect, MinAspectScore, MaxAspectScore)
		}
	}
	return nil
}

// Value implements driver.Valuer.
func (a AspectScores) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *AspectScores) Scan(value any) error {
	if value == nil {
		*a = AspectScores{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("unsupported type for AspectScores")
	}
}

// Rating is a directed peer rating. The (fromUser, toUser) pair is unique;
// once the cooldown has elapsed a new rating replaces the previous one.
// Visibility flips to false (never hard-deleted) when either party's account
// is removed, preserving aggregate history for the counterparty.
type Rating struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	FromUserID uint         `gorm:"not null;uniqueIndex:idx_from_to" json:"fromUserId"`
	ToUserID   uint         `gorm:"not null;uniqueIndex:idx_from_to;index" json:"toUserId"`
	Aspects    AspectScores `gorm:"type:jsonb;not null" json:"ratings"`
	Comment    string       `json:"comment"`
	Weight     float64      `gorm:"default:1" json:"weight"`
	Visibility bool         `gorm:"default:true" json:"visibility"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`

	FromUser User `gorm:"foreignKey:FromUserID" json:"fromUser,omitempty"`
	ToUser   User `gorm:"foreignKey:ToUserID" json:"toUser,omitempty"`
}

// AspectAverages holds the per-aspect arithmetic mean for a user. Aspects
// with zero observations stay nil rather than reporting zero.
type AspectAverages map[string]*float64
