package models

import "time"

// Follow links a follower to the account they follow. The unique index keeps
// the relationship idempotent so repeated follow requests cannot farm points.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"uniqueIndex:idx_follow_pair,priority:1;not null" json:"follower_id"`
	FolloweeID uint      `gorm:"uniqueIndex:idx_follow_pair,priority:2;not null" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
