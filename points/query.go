package points

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/stayloop/rewards/models"
)

// Balance is a read-only snapshot of a user's aggregate. Users with no awards
// yet get a zeroed snapshot; reading never creates rows.
type Balance struct {
	UserID           uint `json:"user_id"`
	TotalPoints      int  `json:"total_points"`
	CurrentPoints    int  `json:"current_points"`
	LifetimeEarned   int  `json:"lifetime_earned"`
	LifetimeRedeemed int  `json:"lifetime_redeemed"`
}

func (e *Engine) GetBalance(ctx context.Context, userID uint) (Balance, error) {
	var agg models.UserPoints
	err := e.db.WithContext(ctx).Where("user_id = ?", userID).Take(&agg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Balance{UserID: userID}, nil
	}
	if err != nil {
		return Balance{}, err
	}
	return Balance{
		UserID:           userID,
		TotalPoints:      agg.TotalPoints,
		CurrentPoints:    agg.CurrentPoints,
		LifetimeEarned:   agg.LifetimeEarned,
		LifetimeRedeemed: agg.LifetimeRedeemed,
	}, nil
}

// HistoryFilter pages through a user's ledger, newest first. Action narrows the
// page to one action type when set.
type HistoryFilter struct {
	Limit  int
	Offset int
	Action string
}

type HistoryPage struct {
	Items   []models.PointTransaction `json:"items"`
	Total   int64                     `json:"total"`
	HasMore bool                      `json:"has_more"`
}

func (e *Engine) GetHistory(ctx context.Context, userID uint, f HistoryFilter) (HistoryPage, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	query := e.db.WithContext(ctx).Model(&models.PointTransaction{}).Where("user_id = ?", userID)
	if f.Action != "" {
		query = query.Where("action = ?", f.Action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return HistoryPage{}, err
	}

	var items []models.PointTransaction
	err := query.Order("created_at DESC, id DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&items).Error
	if err != nil {
		return HistoryPage{}, err
	}

	return HistoryPage{
		Items:   items,
		Total:   total,
		HasMore: int64(f.Offset+len(items)) < total,
	}, nil
}

// LeaderboardEntry annotates a ranked aggregate with user display fields.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	AvatarURL   string `json:"avatar_url"`
	TotalPoints int    `json:"total_points"`
}

// GetLeaderboard returns the top limit users by total points, rank starting at 1.
func (e *Engine) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	var entries []LeaderboardEntry
	err := e.db.WithContext(ctx).Model(&models.UserPoints{}).
		Select("user_points.user_id, user_points.total_points, users.username, users.avatar_url").
		Joins("JOIN users ON users.id = user_points.user_id AND users.deleted_at IS NULL").
		Order("user_points.total_points DESC, user_points.user_id ASC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// StreakInfo summarizes where a user stands in the check-in cycle.
type StreakInfo struct {
	CurrentStreak      int  `json:"current_streak"`
	CheckedInToday     bool `json:"checked_in_today"`
	NextMilestone      int  `json:"next_milestone,omitempty"`
	NextMilestoneBonus int  `json:"next_milestone_bonus,omitempty"`
}

func (e *Engine) GetStreakInfo(ctx context.Context, userID uint) (StreakInfo, error) {
	var todayRow models.DailyCheckIn
	err := e.db.WithContext(ctx).
		Where("user_id = ? AND check_in_day = ?", userID, DayKey(time.Now())).
		Take(&todayRow).Error

	info := StreakInfo{}
	switch {
	case err == nil:
		info.CheckedInToday = true
		info.CurrentStreak = todayRow.StreakCount
	case errors.Is(err, gorm.ErrRecordNotFound):
		streak, calcErr := e.CalculateStreak(ctx, userID)
		if calcErr != nil {
			return StreakInfo{}, calcErr
		}
		info.CurrentStreak = streak
	default:
		return StreakInfo{}, err
	}

	info.NextMilestone, info.NextMilestoneBonus = e.nextMilestone(info.CurrentStreak)
	return info, nil
}
