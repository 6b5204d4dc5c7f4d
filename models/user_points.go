package models

import "time"

// UserPoints is the per-user balance aggregate, one row per user, created
// lazily on first award. Invariant: CurrentPoints = LifetimeEarned - LifetimeRedeemed.
type UserPoints struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalPoints      int       `gorm:"default:0;index" json:"total_points"`
	CurrentPoints    int       `gorm:"default:0" json:"current_points"`
	LifetimeEarned   int       `gorm:"default:0" json:"lifetime_earned"`
	LifetimeRedeemed int       `gorm:"default:0" json:"lifetime_redeemed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
