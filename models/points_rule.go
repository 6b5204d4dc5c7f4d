package models

import "time"

// PointsRule configures one rewardable action: how many points it grants, an
// optional per-day cap, and whether it is currently enabled. Rules are seeded at
// boot and mutated only through the admin endpoints.
//
// IsActive carries no column default on purpose: gorm skips zero-value fields
// that have a default tag on insert, which would flip a rule created disabled
// to active.
type PointsRule struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Action      string    `gorm:"size:64;uniqueIndex;not null" json:"action"`
	Points      int       `gorm:"not null" json:"points"`
	DailyLimit  *int      `json:"daily_limit"` // nil = unlimited per day
	IsActive    bool      `json:"is_active"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
