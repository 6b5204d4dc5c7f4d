package models

import "time"

// DailyCheckIn records one check-in per user per calendar day. CheckInDay holds
// the server-local day key ("2006-01-02"); the composite unique index makes the
// one-row-per-day rule a database guarantee, not just an application check.
type DailyCheckIn struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"uniqueIndex:idx_checkin_user_day,priority:1;not null" json:"user_id"`
	CheckInDay    string    `gorm:"size:10;uniqueIndex:idx_checkin_user_day,priority:2;not null" json:"check_in_day"`
	CheckInDate   time.Time `gorm:"not null" json:"check_in_date"` // start of day
	PointsAwarded int       `json:"points_awarded"`
	StreakCount   int       `json:"streak_count"` // streak value as of this check-in
	CreatedAt     time.Time `json:"created_at"`
}
