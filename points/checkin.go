package points

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/stayloop/rewards/models"
)

const msgAlreadyCheckedIn = "already checked in today"

// CheckInResult reports the outcome of a daily check-in. BonusPoints is set
// only when a streak milestone was reached.
type CheckInResult struct {
	Success     bool   `json:"success"`
	Points      int    `json:"points"`
	StreakCount int    `json:"streak_count"`
	BonusPoints int    `json:"bonus_points,omitempty"`
	Message     string `json:"message"`
}

// CheckIn performs the daily check-in for userID: extends the streak, applies
// any milestone bonus, and writes the check-in row, ledger entry, and aggregate
// update in one transaction. The base award comes from the daily_check_in rule
// when one is configured, so admin edits take effect; the configured default
// applies otherwise. The unique (user_id, check_in_day) index backstops
// concurrent duplicate attempts.
func (e *Engine) CheckIn(ctx context.Context, userID uint) CheckInResult {
	now := time.Now()
	today := DayKey(now)

	var existing models.DailyCheckIn
	err := e.db.WithContext(ctx).
		Where("user_id = ? AND check_in_day = ?", userID, today).
		Take(&existing).Error
	if err == nil {
		return CheckInResult{Message: msgAlreadyCheckedIn, StreakCount: existing.StreakCount}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logErrorf("check-in lookup for user %d failed: %v", userID, err)
		return CheckInResult{Message: msgRewardsUnavailable}
	}

	base := e.opts.CheckInBasePoints
	rule, err := e.rules.GetRule(ctx, ActionDailyCheckIn)
	switch {
	case err == nil:
		if !rule.IsActive {
			return CheckInResult{Message: ReasonRuleDisabled}
		}
		base = rule.Points
	case errors.Is(err, ErrRuleNotFound):
		// no rule row, stay on the configured default
	default:
		logErrorf("check-in rule lookup for user %d failed: %v", userID, err)
		return CheckInResult{Message: msgRewardsUnavailable}
	}

	streak, err := e.CalculateStreak(ctx, userID)
	if err != nil {
		logErrorf("streak calculation for user %d failed: %v", userID, err)
		return CheckInResult{Message: msgRewardsUnavailable}
	}

	newStreak := streak + 1
	bonus := e.bonusFor(newStreak)
	total := base + bonus

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		agg, err := lockUserPoints(tx, userID)
		if err != nil {
			return err
		}

		record := models.DailyCheckIn{
			UserID:        userID,
			CheckInDay:    today,
			CheckInDate:   StartOfDay(now),
			PointsAwarded: total,
			StreakCount:   newStreak,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		entry := models.PointTransaction{
			UserID:      userID,
			Action:      ActionDailyCheckIn,
			Points:      total,
			Description: fmt.Sprintf("Daily check-in, day %d of streak", newStreak),
			Metadata: encodeMetadata(map[string]interface{}{
				"streak": newStreak,
				"base":   base,
				"bonus":  bonus,
			}),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		_, err = applyEarned(tx, agg, total)
		return err
	})

	switch {
	case err == nil:
		msg := "check-in complete"
		if bonus > 0 {
			msg = fmt.Sprintf("check-in complete, %d-day streak bonus earned", newStreak)
		}
		return CheckInResult{
			Success:     true,
			Points:      total,
			StreakCount: newStreak,
			BonusPoints: bonus,
			Message:     msg,
		}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// Lost a race with a concurrent check-in; report the row that won.
		if lookupErr := e.db.WithContext(ctx).
			Where("user_id = ? AND check_in_day = ?", userID, today).
			Take(&existing).Error; lookupErr == nil {
			return CheckInResult{Message: msgAlreadyCheckedIn, StreakCount: existing.StreakCount}
		}
		return CheckInResult{Message: msgAlreadyCheckedIn}
	default:
		logErrorf("check-in for user %d failed: %v", userID, err)
		return CheckInResult{Message: msgRewardsUnavailable}
	}
}
